package inventory

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"acristock/internal/api/response"
	"acristock/internal/domain"
	"acristock/internal/export"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
	"acristock/internal/service/inventoryservice"
)

// InventoryService define o contrato que o Handler espera da camada de Serviço.
type InventoryService interface {
	Create(ctx context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error)
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error)
	List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error)
	Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error)
	Delete(ctx context.Context, kind domain.Kind, id string) error
	Summary(ctx context.Context) (domain.InventorySummary, error)
	Snapshot(ctx context.Context) (domain.InventorySnapshot, error)
}

// Handler agrupa os handlers CRUD das coleções e os do inventário agregado.
// Os handlers por coleção são construídos para um Kind (chapa, retalho, sobra ou corte).
type Handler struct {
	Service InventoryService
	Logger  logger.Logger
	now     func() time.Time
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc InventoryService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		now:     time.Now,
	}
}

// ListHandler lida com GET /v1/{colecao}.
// @Summary Lista os registos de uma coleção
// @Description Devolve todas as chapas, retalhos, sobras ou cortes, do mais antigo para o mais recente. Chapas esgotadas continuam listadas.
// @Tags inventario
// @Produce json
// @Success 200 {array} domain.Piece
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /chapas [get]
// @Router /retalhos [get]
// @Router /sobras [get]
// @Router /cortes [get]
func (h *Handler) ListHandler(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pieces, err := h.Service.List(r.Context(), kind)
		response.Handle(w, r, h.Logger, pieces, err, http.StatusOK)
	}
}

// GetHandler lida com GET /v1/{colecao}/{id}.
// @Summary Busca um registo por ID
// @Tags inventario
// @Produce json
// @Param id path string true "ID do registo"
// @Success 200 {object} domain.Piece
// @Failure 404 {object} domain.ErrorResponse "Registo não encontrado"
// @Router /chapas/{id} [get]
// @Router /retalhos/{id} [get]
// @Router /sobras/{id} [get]
// @Router /cortes/{id} [get]
func (h *Handler) GetHandler(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		piece, err := h.Service.Get(r.Context(), kind, r.PathValue("id"))
		response.Handle(w, r, h.Logger, piece, err, http.StatusOK)
	}
}

// CreateHandler lida com POST /v1/chapas e POST /v1/retalhos.
// @Summary Regista uma chapa ou retalho
// @Description Cortes e sobras não podem ser criados diretamente: nascem do registo de cortes.
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param peca body domain.Piece true "Dados da peça (id, kind, cut_area e origin_sheet são ignorados)"
// @Success 201 {object} domain.Piece
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Router /chapas [post]
// @Router /retalhos [post]
func (h *Handler) CreateHandler(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var piece domain.Piece
		if err := response.Decode(w, r, &piece); err != nil {
			response.Error(w, r, h.Logger, err)
			return
		}
		created, err := h.Service.Create(r.Context(), kind, piece)
		response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
	}
}

// UpdateHandler lida com PUT /v1/{colecao}/{id}.
// @Summary Atualiza parcialmente um registo
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do registo"
// @Param patch body domain.PiecePatch true "Campos a alterar"
// @Success 200 {object} domain.Piece
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Registo não encontrado"
// @Router /chapas/{id} [put]
// @Router /retalhos/{id} [put]
// @Router /sobras/{id} [put]
// @Router /cortes/{id} [put]
func (h *Handler) UpdateHandler(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.PiecePatch
		if err := response.Decode(w, r, &patch); err != nil {
			response.Error(w, r, h.Logger, err)
			return
		}
		updated, err := h.Service.Update(r.Context(), kind, r.PathValue("id"), patch)
		response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
	}
}

// DeleteHandler lida com DELETE /v1/{colecao}/{id}.
// @Summary Remove um registo
// @Description Requer o papel admin.
// @Tags inventario
// @Security BearerAuth
// @Param id path string true "ID do registo"
// @Success 204 "Removido"
// @Failure 403 {object} domain.ErrorResponse "Papel insuficiente"
// @Failure 404 {object} domain.ErrorResponse "Registo não encontrado"
// @Router /chapas/{id} [delete]
// @Router /retalhos/{id} [delete]
// @Router /sobras/{id} [delete]
// @Router /cortes/{id} [delete]
func (h *Handler) DeleteHandler(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.Service.Delete(r.Context(), kind, r.PathValue("id"))
		response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
	}
}

// SummaryHandler lida com GET /v1/inventario/resumo.
// @Summary Totais do inventário
// @Tags inventario
// @Produce json
// @Success 200 {object} domain.InventorySummary
// @Router /inventario/resumo [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Service.Summary(r.Context())
	response.Handle(w, r, h.Logger, sum, err, http.StatusOK)
}

// ExportHandler lida com GET /v1/inventario/exportar.
// @Summary Exporta o inventário em XLSX
// @Tags inventario
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /inventario/exportar [get]
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.Service.Snapshot(ctx)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	// O livro é montado em memória para que um erro ainda possa ser devolvido como JSON.
	var buf bytes.Buffer
	if err := export.WriteInventoryWorkbook(&buf, snap, inventoryservice.Summarize(snap)); err != nil {
		response.Error(w, r, h.Logger, apperror.NewInternalError("Falha ao gerar o livro XLSX.", err))
		return
	}

	filename := fmt.Sprintf("inventario_%s.xlsx", h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Falha ao enviar o livro XLSX.", err)
	}
}
