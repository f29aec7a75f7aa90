package cutservice

import (
	"fmt"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
)

// Validate verifica se um corte cabe na peça de origem.
// Cada corte é comparado com as dimensões originais da origem; cortes do mesmo
// lote não reduzem a área disponível uns dos outros.
func Validate(source domain.Piece, cut domain.CutRequest) error {
	if cut.Width <= 0 || cut.Height <= 0 {
		return apperror.NewRejectedError(apperror.ReasonInvalidDimensions,
			fmt.Sprintf("dimensões %dx%dmm inválidas: largura e altura devem ser positivas", cut.Width, cut.Height))
	}
	if cut.Width > source.Width || cut.Height > source.Height {
		return apperror.NewRejectedError(apperror.ReasonExceedsSource,
			fmt.Sprintf("%dx%dmm excede a origem %dx%dmm", cut.Width, cut.Height, source.Width, source.Height))
	}
	return nil
}

// ValidateBatch valida cada corte de forma independente e devolve um veredito por corte,
// para que um corte inválido possa ser corrigido sem perder os restantes.
func ValidateBatch(source domain.Piece, cuts []domain.CutRequest) []domain.CutVerdict {
	batch := newPendingBatch(source)
	verdicts := make([]domain.CutVerdict, 0, len(cuts))
	for i, cut := range cuts {
		v := domain.CutVerdict{Index: i, Width: cut.Width, Height: cut.Height, OK: true}
		if err := batch.add(cut); err != nil {
			v.OK = false
			v.Message = err.Error()
			if reason, ok := apperror.RejectionReason(err); ok {
				v.Reason = string(reason)
			}
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}

// validateAll devolve a primeira rejeição do lote, identificando o corte (1-based).
func validateAll(source domain.Piece, cuts []domain.CutRequest) error {
	if len(cuts) == 0 {
		return apperror.NewRejectedError(apperror.ReasonEmptyBatch, "adicione pelo menos um corte")
	}
	for i, cut := range cuts {
		if err := Validate(source, cut); err != nil {
			reason, _ := apperror.RejectionReason(err)
			return apperror.NewRejectedError(reason, fmt.Sprintf("corte %d: %s", i+1, rejectionMsg(err)))
		}
	}
	return nil
}

func rejectionMsg(err error) string {
	if r, ok := err.(*apperror.RejectedError); ok {
		return r.Msg
	}
	return err.Error()
}
