package inventory_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"acristock/internal/api/inventory"
	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/export"
	"acristock/internal/pkg/logger"
)

// MockInventoryService é uma implementação mock de inventory.InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Create(ctx context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error) {
	args := m.Called(ctx, kind, piece)
	return args.Get(0).(domain.Piece), args.Error(1)
}

func (m *MockInventoryService) Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(domain.Piece), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]domain.Piece), args.Error(1)
}

func (m *MockInventoryService) Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	args := m.Called(ctx, kind, id, patch)
	return args.Get(0).(domain.Piece), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *MockInventoryService) Summary(ctx context.Context) (domain.InventorySummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.InventorySummary), args.Error(1)
}

func (m *MockInventoryService) Snapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.InventorySnapshot), args.Error(1)
}

func sheet() domain.Piece {
	return domain.Piece{
		ID:        "c-1",
		Kind:      domain.KindSheet,
		Width:     2000,
		Height:    3000,
		Thickness: decimal.NewFromInt(3),
		Color:     "Transparente",
		Quantity:  10,
		Location:  "Armazém A",
	}
}

func TestListHandler_Success(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("List", mock.Anything, domain.KindSheet).Return([]domain.Piece{sheet()}, nil)

	rec := httptest.NewRecorder()
	h.ListHandler(domain.KindSheet)(rec, httptest.NewRequest(http.MethodGet, "/v1/chapas", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Piece
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].ID)
	assert.True(t, decimal.NewFromInt(3).Equal(got[0].Thickness))
}

func TestGetHandler_Fail_NotFound(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("Get", mock.Anything, domain.KindScrap, "r-9").Return(domain.Piece{}, apperror.NewNotFoundError("Retalho com ID r-9 não encontrado."))

	req := httptest.NewRequest(http.MethodGet, "/v1/retalhos/r-9", nil)
	req.SetPathValue("id", "r-9")
	rec := httptest.NewRecorder()
	h.GetHandler(domain.KindScrap)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Category)
	svc.AssertExpectations(t)
}

func TestCreateHandler_Success(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("Create", mock.Anything, domain.KindSheet, mock.MatchedBy(func(p domain.Piece) bool {
		return p.Width == 2000 && p.Height == 3000 && p.Quantity == 10 && p.Thickness.Equal(decimal.NewFromInt(3))
	})).Return(sheet(), nil)

	body := `{"width":2000,"height":3000,"thickness":"3","color":"Transparente","quantity":10,"location":"Armazém A"}`
	rec := httptest.NewRecorder()
	h.CreateHandler(domain.KindSheet)(rec, httptest.NewRequest(http.MethodPost, "/v1/chapas", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateHandler_Fail_EmptyBody(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())

	rec := httptest.NewRecorder()
	h.CreateHandler(domain.KindScrap)(rec, httptest.NewRequest(http.MethodPost, "/v1/retalhos", http.NoBody))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateHandler_Success(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())

	updated := sheet()
	updated.Quantity = 7
	svc.On("Update", mock.Anything, domain.KindSheet, "c-1", mock.MatchedBy(func(p domain.PiecePatch) bool {
		return p.Quantity != nil && *p.Quantity == 7 && p.Width == nil
	})).Return(updated, nil)

	req := httptest.NewRequest(http.MethodPut, "/v1/chapas/c-1", strings.NewReader(`{"quantity":7}`))
	req.SetPathValue("id", "c-1")
	rec := httptest.NewRecorder()
	h.UpdateHandler(domain.KindSheet)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":7`)
}

func TestDeleteHandler_Success(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("Delete", mock.Anything, domain.KindLeftover, "s-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sobras/s-1", nil)
	req.SetPathValue("id", "s-1")
	rec := httptest.NewRecorder()
	h.DeleteHandler(domain.KindLeftover)(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSummaryHandler_Success(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("Summary", mock.Anything).Return(domain.InventorySummary{SheetRecords: 1, SheetUnits: 10, SheetArea: 60}, nil)

	rec := httptest.NewRecorder()
	h.SummaryHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/inventario/resumo", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.InventorySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 10, got.SheetUnits)
	assert.InDelta(t, 60.0, got.SheetArea, 1e-9)
}

func TestExportHandler_Success(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("Snapshot", mock.Anything).Return(domain.InventorySnapshot{Sheets: []domain.Piece{sheet()}}, nil)

	rec := httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/inventario/exportar", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventario_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetChapas)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportHandler_Fail_SnapshotError(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNopLogger())
	svc.On("Snapshot", mock.Anything).Return(domain.InventorySnapshot{}, apperror.NewDBError("Falha ao ler o inventário.", errors.New("conn refused")))

	rec := httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/inventario/exportar", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
