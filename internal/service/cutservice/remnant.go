package cutservice

import (
	"fmt"
	"math"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
)

// ComputeRemnant calcula a sobra resultante de aplicar cuts à origem segundo policy.
// manual só é lido com PolicyManual. A sobra devolvida ainda não tem ID nem CreatedAt.
//
//   - integral: a sobra mantém as dimensões da origem e CutArea = Σ(l×a)/1e6.
//   - proporcional: a sobra tem a área restante e a proporção da origem; CutArea = 0.
//   - manual: a sobra tem as dimensões indicadas pelo operador; CutArea = 0.
func ComputeRemnant(source domain.Piece, cuts []domain.CutRequest, policy domain.RemnantPolicy, manual *domain.CutRequest) (domain.Piece, error) {
	if source.Width <= 0 || source.Height <= 0 {
		return domain.Piece{}, apperror.NewRejectedError(apperror.ReasonInvalidDimensions,
			fmt.Sprintf("origem com dimensões inválidas %dx%dmm", source.Width, source.Height))
	}

	sourceMM2 := int64(source.Width) * int64(source.Height)
	cutMM2 := totalAreaMM2(cuts)

	leftover := domain.Piece{
		Kind:        domain.KindLeftover,
		Thickness:   source.Thickness,
		Color:       source.Color,
		Location:    source.Location,
		OriginSheet: source.Label(),
	}

	switch policy {
	case domain.PolicyFullFootprint:
		leftover.Width = source.Width
		leftover.Height = source.Height
		leftover.CutArea = float64(cutMM2) / domain.MM2PerM2
		if cutMM2 > sourceMM2 {
			return domain.Piece{}, apperror.NewRejectedError(apperror.ReasonOverCut,
				fmt.Sprintf("área cortada %.4fm² excede a área da origem %.4fm²", leftover.CutArea, source.Area()))
		}

	case domain.PolicyProportional:
		w, h, err := shrinkProportionally(source.Width, source.Height, sourceMM2-cutMM2)
		if err != nil {
			return domain.Piece{}, err
		}
		leftover.Width = w
		leftover.Height = h

	case domain.PolicyManual:
		if manual == nil {
			return domain.Piece{}, apperror.NewValidationError("A política manual exige as dimensões da sobra.")
		}
		if manual.Width <= 0 || manual.Height <= 0 {
			return domain.Piece{}, apperror.NewRejectedError(apperror.ReasonInvalidDimensions,
				fmt.Sprintf("sobra %dx%dmm inválida: largura e altura devem ser positivas", manual.Width, manual.Height))
		}
		if manual.Width > source.Width || manual.Height > source.Height {
			return domain.Piece{}, apperror.NewRejectedError(apperror.ReasonExceedsSource,
				fmt.Sprintf("sobra %dx%dmm excede a origem %dx%dmm", manual.Width, manual.Height, source.Width, source.Height))
		}
		if manual.AreaMM2() > sourceMM2-cutMM2 {
			return domain.Piece{}, apperror.NewRejectedError(apperror.ReasonOverCut,
				fmt.Sprintf("sobra %dx%dmm maior que a área restante %.4fm²", manual.Width, manual.Height,
					float64(sourceMM2-cutMM2)/domain.MM2PerM2))
		}
		leftover.Width = manual.Width
		leftover.Height = manual.Height

	default:
		return domain.Piece{}, apperror.NewValidationError(
			fmt.Sprintf("Política de sobra desconhecida: %q (use integral, proporcional ou manual).", policy))
	}

	return leftover, nil
}

// shrinkProportionally devolve as dimensões de um retângulo com remainingMM2 de área
// e a proporção largura/altura da origem. A altura é truncada para não sobrestimar a
// área restante; a largura é arredondada ao milímetro mais próximo.
func shrinkProportionally(width, height int, remainingMM2 int64) (int, int, error) {
	if remainingMM2 <= 0 {
		return 0, 0, apperror.NewRejectedError(apperror.ReasonOverCut,
			fmt.Sprintf("sem área restante (%.4fm²)", float64(remainingMM2)/domain.MM2PerM2))
	}

	ratio := float64(width) / float64(height)
	h := math.Floor(math.Sqrt(float64(remainingMM2) / ratio))
	w := math.Round(h * ratio)
	if h <= 0 || w <= 0 {
		return 0, 0, apperror.NewRejectedError(apperror.ReasonOverCut,
			fmt.Sprintf("área restante %.6fm² demasiado pequena para uma sobra", float64(remainingMM2)/domain.MM2PerM2))
	}
	return int(w), int(h), nil
}

func totalAreaMM2(cuts []domain.CutRequest) int64 {
	var total int64
	for _, c := range cuts {
		total += c.AreaMM2()
	}
	return total
}

// Preview calcula a sobra sem escrever nada, incluindo a contabilidade de áreas em m².
func Preview(source domain.Piece, cuts []domain.CutRequest, policy domain.RemnantPolicy, manual *domain.CutRequest) (domain.RemnantPreview, error) {
	if err := validateAll(source, cuts); err != nil {
		return domain.RemnantPreview{}, err
	}
	leftover, err := ComputeRemnant(source, cuts, policy, manual)
	if err != nil {
		return domain.RemnantPreview{}, err
	}
	cutArea := float64(totalAreaMM2(cuts)) / domain.MM2PerM2
	return domain.RemnantPreview{
		Source:        source,
		Policy:        policy,
		Leftover:      leftover,
		SourceArea:    source.Area(),
		CutArea:       cutArea,
		RemainingArea: source.Area() - cutArea,
	}, nil
}
