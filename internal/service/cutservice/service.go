package cutservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
	"acristock/internal/pkg/metrics"
)

// Service é o motor de cortes: resolve a origem, valida os cortes, calcula a sobra
// e aplica todos os efeitos de um lote de forma atómica.
type Service struct {
	store         TxStore
	logger        logger.Logger
	metrics       metrics.Recorder
	newID         func() string
	now           func() time.Time
	defaultPolicy domain.RemnantPolicy
	locks         *keyLock
}

// Option configura um Service.
type Option func(*Service)

// WithIDGenerator injeta o gerador de identificadores (por omissão uuid.NewString).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock injeta o relógio usado em CreatedAt (por omissão time.Now em UTC).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithMetrics injeta o publicador de métricas.
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultPolicy define a política usada quando o pedido não indica nenhuma.
func WithDefaultPolicy(p domain.RemnantPolicy) Option {
	return func(s *Service) { s.defaultPolicy = p }
}

// NewService cria e retorna uma nova instância do motor de cortes.
func NewService(store TxStore, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:         store,
		logger:        log,
		metrics:       metrics.Nop{},
		newID:         uuid.NewString,
		now:           func() time.Time { return time.Now().UTC() },
		defaultPolicy: domain.PolicyFullFootprint,
		locks:         newKeyLock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve localiza uma peça de origem selecionável.
func (s *Service) Resolve(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	return Resolve(ctx, s.store, kind, id)
}

// ValidateCuts resolve a origem e devolve um veredito por corte, sem escrever nada.
func (s *Service) ValidateCuts(ctx context.Context, kind domain.Kind, id string, cuts []domain.CutRequest) ([]domain.CutVerdict, error) {
	source, err := Resolve(ctx, s.store, kind, id)
	if err != nil {
		return nil, err
	}
	return ValidateBatch(source, cuts), nil
}

// Preview simula o lote: devolve a sobra que seria criada, sem escrever nada.
func (s *Service) Preview(ctx context.Context, req domain.CommitRequest) (domain.RemnantPreview, error) {
	policy, err := s.policyFor(req.Policy)
	if err != nil {
		return domain.RemnantPreview{}, err
	}
	source, err := Resolve(ctx, s.store, req.SourceKind, req.SourceID)
	if err != nil {
		return domain.RemnantPreview{}, err
	}
	return Preview(source, req.Cuts, policy, req.ManualRemnant)
}

// Commit regista um lote de cortes. Numa única transação:
//  1. cria um registo de corte por cada corte pedido;
//  2. cria a sobra calculada pela política escolhida;
//  3. decrementa a chapa de origem (mínimo 0) ou remove o retalho/sobra de origem.
//
// Ou o lote é aplicado por inteiro, ou nada é escrito.
func (s *Service) Commit(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error) {
	s.logger.Debug("Iniciando registo de cortes.", map[string]interface{}{
		"source_kind": req.SourceKind,
		"source_id":   req.SourceID,
		"cuts":        len(req.Cuts),
		"policy":      req.Policy,
	})

	if len(req.Cuts) == 0 {
		return domain.CommitResult{}, s.reject(apperror.NewRejectedError(apperror.ReasonEmptyBatch, "adicione pelo menos um corte"))
	}
	policy, err := s.policyFor(req.Policy)
	if err != nil {
		return domain.CommitResult{}, s.reject(err)
	}

	// Commits sobre a mesma origem são serializados: dois registos concorrentes
	// sobre uma chapa com quantidade 1 não podem ambos ter sucesso.
	unlock := s.locks.Lock(fmt.Sprintf("%s:%s", req.SourceKind, req.SourceID))
	defer unlock()

	var result domain.CommitResult
	err = s.store.RunInTx(ctx, func(tx Store) error {
		source, err := Resolve(ctx, tx, req.SourceKind, req.SourceID)
		if err != nil {
			return err
		}
		if err := validateAll(source, req.Cuts); err != nil {
			return err
		}
		leftover, err := ComputeRemnant(source, req.Cuts, policy, req.ManualRemnant)
		if err != nil {
			return err
		}

		now := s.now()
		label := source.Label()

		// 1. Registos de corte
		cuts := make([]domain.Piece, 0, len(req.Cuts))
		for _, c := range req.Cuts {
			created, err := tx.Insert(ctx, domain.KindCut, domain.Piece{
				ID:          s.newID(),
				Kind:        domain.KindCut,
				Width:       c.Width,
				Height:      c.Height,
				Thickness:   source.Thickness,
				Color:       source.Color,
				OriginSheet: label,
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
			cuts = append(cuts, created)
		}

		// 2. Sobra
		leftover.ID = s.newID()
		leftover.CreatedAt = now
		createdLeftover, err := tx.Insert(ctx, domain.KindLeftover, leftover)
		if err != nil {
			return err
		}

		// 3. Origem
		removed := false
		if source.Kind == domain.KindSheet {
			qty, err := tx.DecrementQuantity(ctx, source.ID, 1)
			if err != nil {
				return err
			}
			source.Quantity = qty
		} else {
			if err := tx.Remove(ctx, source.Kind, source.ID); err != nil {
				return err
			}
			removed = true
		}

		result = domain.CommitResult{
			CutsCreated:     len(cuts),
			Cuts:            cuts,
			LeftoverCreated: createdLeftover,
			Source:          source,
			SourceRemoved:   removed,
		}
		return nil
	})
	if err != nil {
		return domain.CommitResult{}, s.reject(err)
	}

	s.metrics.CommitSucceeded(string(req.SourceKind), string(policy), result.CutsCreated, float64(totalAreaMM2(req.Cuts))/domain.MM2PerM2)
	s.logger.Info("Cortes registados com sucesso.", map[string]interface{}{
		"source_kind":    req.SourceKind,
		"source_id":      req.SourceID,
		"cuts_created":   result.CutsCreated,
		"leftover_id":    result.LeftoverCreated.ID,
		"source_removed": result.SourceRemoved,
		"source_qty":     result.Source.Quantity,
	})
	return result, nil
}

func (s *Service) policyFor(p domain.RemnantPolicy) (domain.RemnantPolicy, error) {
	if p == "" {
		return s.defaultPolicy, nil
	}
	policy, ok := domain.ParseRemnantPolicy(string(p))
	if !ok {
		return "", apperror.NewValidationError(
			fmt.Sprintf("Política de sobra desconhecida: %q (use integral, proporcional ou manual).", p))
	}
	return policy, nil
}

// reject regista a rejeição (log + métrica). Erros não tipados do armazenamento
// são convertidos em InternalError.
func (s *Service) reject(err error) error {
	var appErr apperror.AppError
	if !errors.As(err, &appErr) {
		err = apperror.NewInternalError("Falha interna ao registar cortes.", err)
	}

	status, category, _ := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		s.logger.Error("Falha interna ao registar cortes.", err)
		s.metrics.CommitRejected("Internal")
		return err
	}

	label := category
	if reason, ok := apperror.RejectionReason(err); ok {
		label = string(reason)
	}
	s.metrics.CommitRejected(label)
	s.logger.Warn("Lote de cortes rejeitado.", map[string]interface{}{"reason": label, "error": err.Error()})
	return err
}
