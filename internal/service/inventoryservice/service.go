package inventoryservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
)

// Repository define o contrato que o Serviço de Inventário espera da camada de Persistência.
type Repository interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error)
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error)
	Insert(ctx context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error)
	Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error)
	Remove(ctx context.Context, kind domain.Kind, id string) error
}

// Service gere o CRUD das quatro coleções e os agregados do inventário.
type Service struct {
	repo   Repository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Inventário.
func NewService(repo Repository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create regista uma nova chapa ou retalho. Cortes e sobras só nascem do registo de cortes.
func (s *Service) Create(ctx context.Context, kind domain.Kind, piece domain.Piece) (domain.Piece, error) {
	s.logger.Debug("Iniciando criação de registo no serviço.", map[string]interface{}{"kind": kind})

	if kind != domain.KindSheet && kind != domain.KindScrap {
		return domain.Piece{}, apperror.NewValidationError(
			fmt.Sprintf("Não é possível criar registos do tipo %q diretamente; use o registo de cortes.", kind))
	}

	piece.ID = ""
	piece.CutArea = 0
	piece.OriginSheet = ""
	if kind == domain.KindScrap {
		piece.Quantity = 0
	}
	piece.Color = strings.TrimSpace(piece.Color)

	if err := validatePiece(kind, piece); err != nil {
		s.logger.Warn("Falha na validação do registo.", map[string]interface{}{"kind": kind, "error": err.Error()})
		return domain.Piece{}, err
	}

	created, err := s.repo.Insert(ctx, kind, piece)
	if err != nil {
		return domain.Piece{}, s.translate("Falha interna ao criar registo.", err)
	}

	s.logger.Info("Registo criado com sucesso.", map[string]interface{}{"kind": kind, "id": created.ID})
	return created, nil
}

// Get busca um registo pelo ID.
func (s *Service) Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	if err := checkID(id); err != nil {
		return domain.Piece{}, err
	}
	piece, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return domain.Piece{}, s.translate("Falha interna ao buscar registo.", err)
	}
	return piece, nil
}

// List devolve todos os registos de um tipo.
func (s *Service) List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error) {
	pieces, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, s.translate("Falha interna ao listar registos.", err)
	}
	s.logger.Debug("Registos listados.", map[string]interface{}{"kind": kind, "count": len(pieces)})
	return pieces, nil
}

// Update aplica uma atualização parcial a um registo existente.
func (s *Service) Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	s.logger.Debug("Iniciando atualização de registo no serviço.", map[string]interface{}{"kind": kind, "id": id})

	if err := checkID(id); err != nil {
		return domain.Piece{}, err
	}
	if patch.Empty() {
		return domain.Piece{}, apperror.NewValidationError("Nenhum campo para atualizar.")
	}
	if err := validatePatch(kind, patch); err != nil {
		s.logger.Warn("Falha na validação da atualização.", map[string]interface{}{"kind": kind, "id": id, "error": err.Error()})
		return domain.Piece{}, err
	}

	if kind == domain.KindLeftover && (patch.Width != nil || patch.Height != nil || patch.CutArea != nil) {
		current, err := s.repo.Get(ctx, kind, id)
		if err != nil {
			return domain.Piece{}, s.translate("Falha interna ao buscar registo.", err)
		}
		if err := validateLeftoverArea(patch.Apply(current)); err != nil {
			s.logger.Warn("Falha na validação da atualização.", map[string]interface{}{"kind": kind, "id": id, "error": err.Error()})
			return domain.Piece{}, err
		}
	}

	updated, err := s.repo.Update(ctx, kind, id, patch)
	if err != nil {
		return domain.Piece{}, s.translate("Falha interna ao atualizar registo.", err)
	}

	s.logger.Info("Registo atualizado com sucesso.", map[string]interface{}{"kind": kind, "id": id})
	return updated, nil
}

// Delete remove um registo. Chapas esgotadas só saem do inventário por esta via.
func (s *Service) Delete(ctx context.Context, kind domain.Kind, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, kind, id); err != nil {
		return s.translate("Falha interna ao remover registo.", err)
	}
	s.logger.Info("Registo removido com sucesso.", map[string]interface{}{"kind": kind, "id": id})
	return nil
}

// Snapshot lê as quatro coleções.
func (s *Service) Snapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	var snap domain.InventorySnapshot
	targets := []struct {
		kind domain.Kind
		dst  *[]domain.Piece
	}{
		{domain.KindSheet, &snap.Sheets},
		{domain.KindScrap, &snap.Scraps},
		{domain.KindLeftover, &snap.Leftovers},
		{domain.KindCut, &snap.Cuts},
	}
	for _, t := range targets {
		pieces, err := s.repo.List(ctx, t.kind)
		if err != nil {
			return domain.InventorySnapshot{}, s.translate("Falha interna ao ler o inventário.", err)
		}
		*t.dst = pieces
	}
	return snap, nil
}

// Summary calcula os totais do inventário.
func (s *Service) Summary(ctx context.Context) (domain.InventorySummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.InventorySummary{}, err
	}
	return Summarize(snap), nil
}

// Summarize agrega uma fotografia do inventário. Cores são agrupadas sem distinção de
// maiúsculas, mantendo a grafia da primeira ocorrência.
func Summarize(snap domain.InventorySnapshot) domain.InventorySummary {
	sum := domain.InventorySummary{
		SheetRecords:      len(snap.Sheets),
		ScrapCount:        len(snap.Scraps),
		LeftoverCount:     len(snap.Leftovers),
		CutCount:          len(snap.Cuts),
		SheetUnitsByColor: []domain.ColorCount{},
	}

	colorIdx := make(map[string]int)
	for _, p := range snap.Sheets {
		sum.SheetUnits += p.Quantity
		sum.SheetArea += p.Area() * float64(p.Quantity)
		if p.Quantity == 0 {
			sum.DepletedSheets++
		}

		key := strings.ToLower(strings.TrimSpace(p.Color))
		i, ok := colorIdx[key]
		if !ok {
			i = len(sum.SheetUnitsByColor)
			colorIdx[key] = i
			sum.SheetUnitsByColor = append(sum.SheetUnitsByColor, domain.ColorCount{Color: strings.TrimSpace(p.Color)})
		}
		sum.SheetUnitsByColor[i].Units += p.Quantity
	}
	for _, p := range snap.Scraps {
		sum.ScrapArea += p.Area()
	}
	for _, p := range snap.Leftovers {
		sum.LeftoverArea += p.Area()
		sum.LeftoverAvailableArea += p.AvailableArea()
	}
	for _, p := range snap.Cuts {
		sum.CutArea += p.Area()
	}
	return sum
}

// translate mantém os erros tipados do repositório e encapsula os restantes em InternalError.
func (s *Service) translate(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus() >= 500 {
			s.logger.Error(msg, err)
		}
		return err
	}
	s.logger.Error(msg, err)
	return apperror.NewInternalError(msg, err)
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.NewValidationError("O ID do registo é obrigatório.")
	}
	return nil
}
