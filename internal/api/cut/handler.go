package cut

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"acristock/internal/api/response"
	"acristock/internal/domain"
	"acristock/internal/export"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
)

// Engine define o contrato que o Handler espera do motor de cortes.
type Engine interface {
	ValidateCuts(ctx context.Context, kind domain.Kind, id string, cuts []domain.CutRequest) ([]domain.CutVerdict, error)
	Preview(ctx context.Context, req domain.CommitRequest) (domain.RemnantPreview, error)
	Commit(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error)
}

// CutFinder busca registos de corte (para as etiquetas).
type CutFinder interface {
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error)
}

// ValidateRequest é o payload de POST /v1/cortes/validar.
type ValidateRequest struct {
	SourceKind domain.Kind         `json:"source_kind" example:"chapa"`
	SourceID   string              `json:"source_id"`
	Cuts       []domain.CutRequest `json:"cuts"`
}

// ValidateResponse devolve um veredito por corte.
type ValidateResponse struct {
	Verdicts []domain.CutVerdict `json:"verdicts"`
	AllOK    bool                `json:"all_ok"`
}

// maxLabelIDs limita o número de etiquetas num único PDF.
const maxLabelIDs = 240

// Handler agrupa os handlers do motor de cortes.
type Handler struct {
	Engine Engine
	Cuts   CutFinder
	Logger logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(engine Engine, cuts CutFinder, log logger.Logger) *Handler {
	return &Handler{Engine: engine, Cuts: cuts, Logger: log}
}

// normalizeKind aceita "Chapa", " retalho " etc. Tipos desconhecidos seguem como vieram
// e são rejeitados pelo motor.
func normalizeKind(k domain.Kind) domain.Kind {
	if parsed, ok := domain.ParseKind(string(k)); ok {
		return parsed
	}
	return k
}

func (h *Handler) decodeCommit(w http.ResponseWriter, r *http.Request) (domain.CommitRequest, error) {
	var req domain.CommitRequest
	if err := response.Decode(w, r, &req); err != nil {
		return domain.CommitRequest{}, err
	}
	req.SourceKind = normalizeKind(req.SourceKind)
	return req, nil
}

// ValidateHandler lida com POST /v1/cortes/validar.
// @Summary Valida cortes contra uma peça de origem
// @Description Resolve a origem e devolve um veredito por corte, sem escrever nada.
// @Tags cortes
// @Accept json
// @Produce json
// @Param pedido body ValidateRequest true "Origem e cortes"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Origem não encontrada ou esgotada"
// @Router /cortes/validar [post]
func (h *Handler) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	verdicts, err := h.Engine.ValidateCuts(r.Context(), normalizeKind(req.SourceKind), req.SourceID, req.Cuts)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	allOK := len(verdicts) > 0
	for _, v := range verdicts {
		allOK = allOK && v.OK
	}
	response.JSON(w, h.Logger, http.StatusOK, ValidateResponse{Verdicts: verdicts, AllOK: allOK})
}

// PreviewHandler lida com POST /v1/cortes/simular.
// @Summary Simula um lote de cortes
// @Description Calcula a sobra que seria criada pela política escolhida, sem escrever nada.
// @Tags cortes
// @Accept json
// @Produce json
// @Param pedido body domain.CommitRequest true "Lote de cortes"
// @Success 200 {object} domain.RemnantPreview
// @Failure 422 {object} domain.ErrorResponse "Corte rejeitado"
// @Router /cortes/simular [post]
func (h *Handler) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCommit(w, r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	preview, err := h.Engine.Preview(r.Context(), req)
	response.Handle(w, r, h.Logger, preview, err, http.StatusOK)
}

// CommitHandler lida com POST /v1/cortes/registar.
// @Summary Regista um lote de cortes
// @Description Cria os registos de corte e a sobra e consome a origem, de forma atómica.
// @Tags cortes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pedido body domain.CommitRequest true "Lote de cortes"
// @Success 201 {object} domain.CommitResult
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Origem não encontrada ou esgotada"
// @Failure 422 {object} domain.ErrorResponse "Corte rejeitado"
// @Router /cortes/registar [post]
func (h *Handler) CommitHandler(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCommit(w, r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	result, err := h.Engine.Commit(r.Context(), req)
	response.Handle(w, r, h.Logger, result, err, http.StatusCreated)
}

// LabelsHandler lida com GET /v1/cortes/etiquetas?ids=a,b.
// @Summary Gera etiquetas PDF com QR code para cortes
// @Tags cortes
// @Produce application/pdf
// @Param ids query string true "IDs dos cortes separados por vírgula"
// @Success 200 {file} file
// @Failure 400 {object} domain.ErrorResponse "Sem IDs"
// @Failure 404 {object} domain.ErrorResponse "Corte não encontrado"
// @Router /cortes/etiquetas [get]
func (h *Handler) LabelsHandler(w http.ResponseWriter, r *http.Request) {
	ids := splitIDs(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		response.Error(w, r, h.Logger, apperror.NewValidationError("Indique pelo menos um ID de corte em ?ids=."))
		return
	}
	if len(ids) > maxLabelIDs {
		response.Error(w, r, h.Logger, apperror.NewValidationError(
			fmt.Sprintf("No máximo %d etiquetas por pedido.", maxLabelIDs)))
		return
	}

	cuts := make([]domain.Piece, 0, len(ids))
	for _, id := range ids {
		c, err := h.Cuts.Get(r.Context(), domain.KindCut, id)
		if err != nil {
			response.Error(w, r, h.Logger, err)
			return
		}
		cuts = append(cuts, c)
	}

	var buf bytes.Buffer
	if err := export.WriteCutLabels(&buf, cuts); err != nil {
		response.Error(w, r, h.Logger, apperror.NewInternalError("Falha ao gerar etiquetas.", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="etiquetas.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Falha ao enviar etiquetas.", err)
	}
}

func splitIDs(raw string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
