// Package memstore guarda os registos de inventário em memória.
// Serve o modo STORE_DRIVER=memory e os testes do motor de cortes.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/service/cutservice"
)

// collection mantém os registos de um tipo pela ordem de inserção.
type collection struct {
	items map[string]domain.Piece
	order []string
}

func newCollection() *collection {
	return &collection{items: make(map[string]domain.Piece)}
}

func (c *collection) clone() *collection {
	out := &collection{
		items: make(map[string]domain.Piece, len(c.items)),
		order: make([]string, len(c.order)),
	}
	for k, v := range c.items {
		out.items[k] = v
	}
	copy(out.order, c.order)
	return out
}

// state são as quatro coleções; os seus métodos não fazem locking.
type state struct {
	collections map[domain.Kind]*collection
	newID       func() string
	now         func() time.Time
}

func (s *state) clone() *state {
	out := &state{collections: make(map[domain.Kind]*collection, len(s.collections)), newID: s.newID, now: s.now}
	for k, c := range s.collections {
		out.collections[k] = c.clone()
	}
	return out
}

func (s *state) collection(kind domain.Kind) (*collection, error) {
	c, ok := s.collections[kind]
	if !ok {
		return nil, apperror.NewValidationError(fmt.Sprintf("Tipo de registo desconhecido: %q.", kind))
	}
	return c, nil
}

func notFound(kind domain.Kind, id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", kind.Title(), id))
}

func (s *state) list(kind domain.Kind) ([]domain.Piece, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Piece, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out, nil
}

func (s *state) get(kind domain.Kind, id string) (domain.Piece, error) {
	c, err := s.collection(kind)
	if err != nil {
		return domain.Piece{}, err
	}
	p, ok := c.items[id]
	if !ok {
		return domain.Piece{}, notFound(kind, id)
	}
	return p, nil
}

func (s *state) insert(kind domain.Kind, piece domain.Piece) (domain.Piece, error) {
	c, err := s.collection(kind)
	if err != nil {
		return domain.Piece{}, err
	}
	if piece.ID == "" {
		piece.ID = s.newID()
	}
	if _, exists := c.items[piece.ID]; exists {
		return domain.Piece{}, apperror.NewConflictError(fmt.Sprintf("%s com ID %s já existe.", kind.Title(), piece.ID))
	}
	if piece.CreatedAt.IsZero() {
		piece.CreatedAt = s.now()
	}
	piece.Kind = kind
	c.items[piece.ID] = piece
	c.order = append(c.order, piece.ID)
	return piece, nil
}

func (s *state) update(kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	current, err := s.get(kind, id)
	if err != nil {
		return domain.Piece{}, err
	}
	updated := patch.Apply(current)
	s.collections[kind].items[id] = updated
	return updated, nil
}

func (s *state) remove(kind domain.Kind, id string) error {
	c, err := s.collection(kind)
	if err != nil {
		return err
	}
	if _, ok := c.items[id]; !ok {
		return notFound(kind, id)
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *state) decrement(id string, by int) (int, error) {
	if by < 0 {
		return 0, apperror.NewValidationError("O decremento não pode ser negativo.")
	}
	sheet, err := s.get(domain.KindSheet, id)
	if err != nil {
		return 0, err
	}
	sheet.Quantity -= by
	if sheet.Quantity < 0 {
		sheet.Quantity = 0
	}
	s.collections[domain.KindSheet].items[id] = sheet
	return sheet.Quantity, nil
}

// Store é um cutservice.TxStore em memória, seguro para uso concorrente.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// Option configura um Store.
type Option func(*state)

// WithIDGenerator define o gerador de IDs para registos inseridos sem ID.
func WithIDGenerator(fn func() string) Option {
	return func(s *state) { s.newID = fn }
}

// WithClock define o relógio para registos inseridos sem CreatedAt.
func WithClock(fn func() time.Time) Option {
	return func(s *state) { s.now = fn }
}

// New cria um Store vazio.
func New(opts ...Option) *Store {
	st := &state{
		collections: make(map[domain.Kind]*collection, len(domain.Kinds)),
		newID:       uuid.NewString,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, k := range domain.Kinds {
		st.collections[k] = newCollection()
	}
	for _, opt := range opts {
		opt(st)
	}
	return &Store{state: st}
}

func (s *Store) List(_ context.Context, kind domain.Kind) ([]domain.Piece, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list(kind)
}

func (s *Store) Get(_ context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.get(kind, id)
}

func (s *Store) Insert(_ context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.insert(kind, piece)
}

func (s *Store) Update(_ context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.update(kind, id, patch)
}

func (s *Store) Remove(_ context.Context, kind domain.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.remove(kind, id)
}

func (s *Store) DecrementQuantity(_ context.Context, id string, by int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.decrement(id, by)
}

// RunInTx executa fn sobre uma cópia do estado e só a publica se fn tiver sucesso
// e o contexto continuar ativo.
// O lock de escrita é mantido durante toda a transação.
func (s *Store) RunInTx(ctx context.Context, fn func(tx cutservice.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(&txStore{state: work}); err != nil {
		return err
	}
	// Um contexto cancelado durante fn descarta a cópia, como um ROLLBACK.
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// txStore expõe o estado de trabalho de uma transação (sem locking próprio).
type txStore struct {
	state *state
}

func (t *txStore) List(_ context.Context, kind domain.Kind) ([]domain.Piece, error) {
	return t.state.list(kind)
}

func (t *txStore) Get(_ context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	return t.state.get(kind, id)
}

func (t *txStore) Insert(_ context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error) {
	return t.state.insert(kind, piece)
}

func (t *txStore) Update(_ context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	return t.state.update(kind, id, patch)
}

func (t *txStore) Remove(_ context.Context, kind domain.Kind, id string) error {
	return t.state.remove(kind, id)
}

func (t *txStore) DecrementQuantity(_ context.Context, id string, by int) (int, error) {
	return t.state.decrement(id, by)
}

var _ cutservice.TxStore = (*Store)(nil)
