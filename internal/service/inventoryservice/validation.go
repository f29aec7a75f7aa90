package inventoryservice

import (
	"fmt"
	"strings"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
)

func validatePiece(kind domain.Kind, p domain.Piece) error {
	if p.Width <= 0 || p.Height <= 0 {
		return apperror.NewValidationError("Largura e altura devem ser maiores que zero.")
	}
	if !p.Thickness.IsPositive() {
		return apperror.NewValidationError("A espessura deve ser maior que zero.")
	}
	if p.Color == "" {
		return apperror.NewValidationError("A cor é obrigatória.")
	}
	if kind == domain.KindSheet && p.Quantity < 0 {
		return apperror.NewValidationError("A quantidade não pode ser negativa.")
	}
	return nil
}

func validatePatch(kind domain.Kind, p domain.PiecePatch) error {
	if (p.Width != nil && *p.Width <= 0) || (p.Height != nil && *p.Height <= 0) {
		return apperror.NewValidationError("Largura e altura devem ser maiores que zero.")
	}
	if p.Thickness != nil && !p.Thickness.IsPositive() {
		return apperror.NewValidationError("A espessura deve ser maior que zero.")
	}
	if p.Color != nil && strings.TrimSpace(*p.Color) == "" {
		return apperror.NewValidationError("A cor não pode ficar vazia.")
	}
	if p.Quantity != nil {
		if kind != domain.KindSheet {
			return apperror.NewValidationError("A quantidade só se aplica a chapas.")
		}
		if *p.Quantity < 0 {
			return apperror.NewValidationError("A quantidade não pode ser negativa.")
		}
	}
	if p.CutArea != nil {
		if kind != domain.KindLeftover {
			return apperror.NewValidationError("A área cortada só se aplica a sobras.")
		}
		if *p.CutArea < 0 {
			return apperror.NewValidationError("A área cortada não pode ser negativa.")
		}
	}
	return nil
}

// validateLeftoverArea garante que a área cortada de uma sobra não excede a sua área.
func validateLeftoverArea(p domain.Piece) error {
	if p.CutArea > p.Area() {
		return apperror.NewValidationError(fmt.Sprintf(
			"A área cortada (%.4fm²) excede a área da sobra %dx%dmm (%.4fm²).", p.CutArea, p.Width, p.Height, p.Area()))
	}
	return nil
}
