package cutservice

import (
	"context"

	"acristock/internal/domain"
)

// Store define o contrato que o motor de cortes espera do armazenamento de registos.
// Erros de ausência devem ser *errors.NotFoundError.
type Store interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error)
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error)
	Insert(ctx context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error)
	Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error)
	Remove(ctx context.Context, kind domain.Kind, id string) error
	// DecrementQuantity só se aplica a chapas; a quantidade nunca desce abaixo de zero.
	DecrementQuantity(ctx context.Context, id string, by int) (int, error)
}

// TxStore é um Store capaz de executar várias operações como uma unidade atómica.
// Se fn devolver erro, nenhuma das escritas feitas através de tx fica visível.
type TxStore interface {
	Store
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
