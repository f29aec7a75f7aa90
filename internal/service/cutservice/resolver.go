package cutservice

import (
	"context"
	"fmt"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
)

// Resolve localiza a peça de origem de um corte na coleção indicada por kind.
// Chapas com quantidade 0 não são selecionáveis e resultam em NotFound.
func Resolve(ctx context.Context, store Store, kind domain.Kind, id string) (domain.Piece, error) {
	if !kind.IsSource() {
		return domain.Piece{}, apperror.NewValidationError(
			fmt.Sprintf("Tipo de origem inválido: %q (use chapa, retalho ou sobra).", kind))
	}
	if id == "" {
		return domain.Piece{}, apperror.NewValidationError("O ID da peça de origem é obrigatório.")
	}

	piece, err := store.Get(ctx, kind, id)
	if err != nil {
		return domain.Piece{}, err
	}

	if !piece.Selectable() {
		return domain.Piece{}, apperror.NewNotFoundError(
			fmt.Sprintf("%s %s esgotada (quantidade 0).", kind.Title(), id))
	}
	return piece, nil
}
