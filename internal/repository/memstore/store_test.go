package memstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/repository/memstore"
	"acristock/internal/service/cutservice"
)

func TestInsert_Success_AssignsIDAndKeepsOrder(t *testing.T) {
	store := memstore.New(memstore.WithIDGenerator(func() string { return "gerado" }))
	ctx := context.Background()

	_, err := store.Insert(ctx, domain.KindScrap, domain.Piece{ID: "r2", Width: 10, Height: 10})
	require.NoError(t, err)
	created, err := store.Insert(ctx, domain.KindScrap, domain.Piece{Width: 20, Height: 20})
	require.NoError(t, err)

	assert.Equal(t, "gerado", created.ID)
	assert.Equal(t, domain.KindScrap, created.Kind)
	assert.False(t, created.CreatedAt.IsZero())

	items, err := store.List(ctx, domain.KindScrap)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "r2", items[0].ID)
	assert.Equal(t, "gerado", items[1].ID)
}

func TestInsert_Fail_DuplicateID(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Insert(ctx, domain.KindSheet, domain.Piece{ID: "c1"})
	require.NoError(t, err)

	_, err = store.Insert(ctx, domain.KindSheet, domain.Piece{ID: "c1"})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestGet_Fail_UnknownKind(t *testing.T) {
	_, err := memstore.New().Get(context.Background(), "caixa", "x")

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestUpdate_Success_PartialPatch(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Insert(ctx, domain.KindSheet, domain.Piece{ID: "c1", Color: "Azul", Quantity: 3, Location: "A"})
	require.NoError(t, err)

	loc := "B"
	updated, err := store.Update(ctx, domain.KindSheet, "c1", domain.PiecePatch{Location: &loc})

	require.NoError(t, err)
	assert.Equal(t, "B", updated.Location)
	assert.Equal(t, "Azul", updated.Color)
	assert.Equal(t, 3, updated.Quantity)
}

func TestRemove_Success_AndFailOnMissing(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Insert(ctx, domain.KindLeftover, domain.Piece{ID: "s1"})
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, domain.KindLeftover, "s1"))

	err = store.Remove(ctx, domain.KindLeftover, "s1")
	assert.True(t, apperror.IsNotFound(err))
}

func TestDecrementQuantity_Success_FloorsAtZero(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Insert(ctx, domain.KindSheet, domain.Piece{ID: "c1", Quantity: 1})
	require.NoError(t, err)

	qty, err := store.DecrementQuantity(ctx, "c1", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	qty, err = store.DecrementQuantity(ctx, "c1", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestRunInTx_Fail_RollsBack(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Insert(ctx, domain.KindSheet, domain.Piece{ID: "c1", Quantity: 5})
	require.NoError(t, err)

	boom := errors.New("falha")
	err = store.RunInTx(ctx, func(tx cutservice.Store) error {
		if _, err := tx.DecrementQuantity(ctx, "c1", 1); err != nil {
			return err
		}
		if _, err := tx.Insert(ctx, domain.KindCut, domain.Piece{ID: "k1"}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	sheet, _ := store.Get(ctx, domain.KindSheet, "c1")
	assert.Equal(t, 5, sheet.Quantity)
	cuts, _ := store.List(ctx, domain.KindCut)
	assert.Empty(t, cuts)
}

func TestRunInTx_Success_Publishes(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(tx cutservice.Store) error {
		_, err := tx.Insert(ctx, domain.KindCut, domain.Piece{ID: "k1"})
		return err
	})

	require.NoError(t, err)
	_, err = store.Get(ctx, domain.KindCut, "k1")
	assert.NoError(t, err)
}

func TestRunInTx_Fail_CancelledContextPublishesNothing(t *testing.T) {
	store := memstore.New()
	_, err := store.Insert(context.Background(), domain.KindSheet, domain.Piece{ID: "c1", Quantity: 5})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = store.RunInTx(ctx, func(tx cutservice.Store) error {
		called = true
		_, err := tx.DecrementQuantity(ctx, "c1", 1)
		return err
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	sheet, _ := store.Get(context.Background(), domain.KindSheet, "c1")
	assert.Equal(t, 5, sheet.Quantity)
}

func TestRunInTx_Fail_CancelledDuringTxPublishesNothing(t *testing.T) {
	store := memstore.New()
	_, err := store.Insert(context.Background(), domain.KindSheet, domain.Piece{ID: "c1", Quantity: 5})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	err = store.RunInTx(ctx, func(tx cutservice.Store) error {
		if _, err := tx.DecrementQuantity(ctx, "c1", 1); err != nil {
			return err
		}
		if _, err := tx.Insert(ctx, domain.KindCut, domain.Piece{ID: "k1"}); err != nil {
			return err
		}
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	sheet, _ := store.Get(context.Background(), domain.KindSheet, "c1")
	assert.Equal(t, 5, sheet.Quantity)
	cuts, _ := store.List(context.Background(), domain.KindCut)
	assert.Empty(t, cuts)
}

func TestUsers_Success_SaveAndFind(t *testing.T) {
	users := memstore.NewUsers()
	ctx := context.Background()

	saved, err := users.Save(ctx, domain.User{Email: "Ana@Acri.pt", PasswordHash: "h", Role: domain.RoleOperator})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	found, err := users.FindByEmail(ctx, "ana@acri.pt")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)

	_, err = users.Save(ctx, domain.User{Email: "ana@acri.pt"})
	assert.IsType(t, &apperror.ConflictError{}, err)

	_, err = users.FindByEmail(ctx, "outro@acri.pt")
	assert.True(t, apperror.IsNotFound(err))
}
