package cutservice_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/service/cutservice"
)

func sheet(id string, w, h, qty int) domain.Piece {
	return domain.Piece{
		ID:        id,
		Kind:      domain.KindSheet,
		Width:     w,
		Height:    h,
		Thickness: decimal.RequireFromString("3"),
		Color:     "Transparente",
		Quantity:  qty,
		Location:  "Armazém A",
	}
}

func TestComputeRemnant_Success_FullFootprint(t *testing.T) {
	src := sheet("c1", 2000, 3000, 10)

	leftover, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 700, Height: 500}}, domain.PolicyFullFootprint, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.KindLeftover, leftover.Kind)
	assert.Equal(t, 2000, leftover.Width)
	assert.Equal(t, 3000, leftover.Height)
	assert.InDelta(t, 0.35, leftover.CutArea, 1e-9)
	assert.True(t, leftover.Thickness.Equal(src.Thickness))
	assert.Equal(t, "Transparente", leftover.Color)
	assert.Equal(t, "Armazém A", leftover.Location)
	assert.Equal(t, "Chapa Transparente (2000x3000mm)", leftover.OriginSheet)
	assert.Empty(t, leftover.ID)
}

func TestComputeRemnant_Success_FullFootprintSumsBatch(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)
	cuts := []domain.CutRequest{{Width: 700, Height: 500}, {Width: 1000, Height: 1000}, {Width: 200, Height: 100}}

	leftover, err := cutservice.ComputeRemnant(src, cuts, domain.PolicyFullFootprint, nil)

	require.NoError(t, err)
	assert.InDelta(t, 0.35+1.0+0.02, leftover.CutArea, 1e-9)
}

func TestComputeRemnant_Success_Proportional(t *testing.T) {
	src := sheet("c1", 2000, 3000, 10)

	leftover, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 1000, Height: 1000}}, domain.PolicyProportional, nil)

	require.NoError(t, err)
	assert.Equal(t, 1825, leftover.Width)
	assert.Equal(t, 2738, leftover.Height)
	assert.Zero(t, leftover.CutArea)
	assert.LessOrEqual(t, leftover.Area(), 5.0)
}

func TestComputeRemnant_Success_Manual(t *testing.T) {
	src := sheet("c1", 2000, 3000, 10)
	manual := &domain.CutRequest{Width: 1500, Height: 2000}

	leftover, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 1000, Height: 1000}}, domain.PolicyManual, manual)

	require.NoError(t, err)
	assert.Equal(t, 1500, leftover.Width)
	assert.Equal(t, 2000, leftover.Height)
	assert.Zero(t, leftover.CutArea)
}

func TestComputeRemnant_Fail_ProportionalNoArea(t *testing.T) {
	src := sheet("c1", 1000, 1000, 1)

	_, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 1000, Height: 1000}}, domain.PolicyProportional, nil)

	reason, ok := apperror.RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ReasonOverCut, reason)
}

func TestComputeRemnant_Fail_FullFootprintOverCut(t *testing.T) {
	src := sheet("c1", 1000, 1000, 1)
	cuts := []domain.CutRequest{{Width: 1000, Height: 600}, {Width: 1000, Height: 600}}

	_, err := cutservice.ComputeRemnant(src, cuts, domain.PolicyFullFootprint, nil)

	reason, ok := apperror.RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ReasonOverCut, reason)
}

func TestComputeRemnant_Fail_ManualWithoutDimensions(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)

	_, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 100, Height: 100}}, domain.PolicyManual, nil)

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestComputeRemnant_Fail_ManualLargerThanRemaining(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)
	manual := &domain.CutRequest{Width: 2000, Height: 3000}

	_, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 100, Height: 100}}, domain.PolicyManual, manual)

	reason, ok := apperror.RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ReasonOverCut, reason)
}

func TestComputeRemnant_Fail_UnknownPolicy(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)

	_, err := cutservice.ComputeRemnant(src, []domain.CutRequest{{Width: 100, Height: 100}}, "diagonal", nil)

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestPreview_Success_AreaAccounting(t *testing.T) {
	src := sheet("c1", 2000, 3000, 10)

	preview, err := cutservice.Preview(src, []domain.CutRequest{{Width: 1000, Height: 1000}}, domain.PolicyProportional, nil)

	require.NoError(t, err)
	assert.InDelta(t, 6.0, preview.SourceArea, 1e-9)
	assert.InDelta(t, 1.0, preview.CutArea, 1e-9)
	assert.InDelta(t, 5.0, preview.RemainingArea, 1e-9)
	assert.Equal(t, 1825, preview.Leftover.Width)
	assert.Equal(t, domain.PolicyProportional, preview.Policy)
}

func TestPreview_Fail_ExceedsSource(t *testing.T) {
	src := sheet("c1", 2000, 3000, 10)

	_, err := cutservice.Preview(src, []domain.CutRequest{{Width: 2500, Height: 500}}, domain.PolicyFullFootprint, nil)

	reason, ok := apperror.RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ReasonExceedsSource, reason)
}

func randomBatch(rng *rand.Rand, src domain.Piece) ([]domain.CutRequest, int64) {
	cuts := make([]domain.CutRequest, 1+rng.Intn(6))
	var total int64
	for i := range cuts {
		cuts[i] = domain.CutRequest{Width: 1 + rng.Intn(src.Width), Height: 1 + rng.Intn(src.Height)}
		total += cuts[i].AreaMM2()
	}
	return cuts, total
}

func TestComputeRemnant_Success_RandomFullFootprint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		src := sheet("c1", 100+rng.Intn(2901), 100+rng.Intn(2901), 1)
		cuts, total := randomBatch(rng, src)
		sourceMM2 := int64(src.Width) * int64(src.Height)

		leftover, err := cutservice.ComputeRemnant(src, cuts, domain.PolicyFullFootprint, nil)

		if total > sourceMM2 {
			reason, ok := apperror.RejectionReason(err)
			require.True(t, ok, "origem %dx%d, cortes %v", src.Width, src.Height, cuts)
			assert.Equal(t, apperror.ReasonOverCut, reason)
			continue
		}
		require.NoError(t, err, "origem %dx%d, cortes %v", src.Width, src.Height, cuts)
		assert.Equal(t, src.Width, leftover.Width)
		assert.Equal(t, src.Height, leftover.Height)
		assert.InDelta(t, float64(total)/domain.MM2PerM2, leftover.CutArea, 1e-9)
		assert.GreaterOrEqual(t, leftover.AvailableArea(), -1e-12)
	}
}

func TestComputeRemnant_Success_RandomProportional(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		src := sheet("c1", 100+rng.Intn(2901), 100+rng.Intn(2901), 1)
		cuts, total := randomBatch(rng, src)
		remaining := int64(src.Width)*int64(src.Height) - total

		leftover, err := cutservice.ComputeRemnant(src, cuts, domain.PolicyProportional, nil)

		if err != nil {
			reason, ok := apperror.RejectionReason(err)
			require.True(t, ok)
			assert.Equal(t, apperror.ReasonOverCut, reason)
			// Só falham lotes que esgotam a origem ou deixam uma sobra sub-milimétrica.
			assert.Less(t, remaining, int64(100), "origem %dx%d, restante %dmm²", src.Width, src.Height, remaining)
			continue
		}

		msg := []interface{}{"origem %dx%d, sobra %dx%d", src.Width, src.Height, leftover.Width, leftover.Height}
		require.Positive(t, remaining, msg...)
		assert.Positive(t, leftover.Width, msg...)
		assert.Positive(t, leftover.Height, msg...)
		assert.LessOrEqual(t, leftover.Width, src.Width, msg...)
		assert.LessOrEqual(t, leftover.Height, src.Height, msg...)
		assert.LessOrEqual(t, int64(leftover.Width)*int64(leftover.Height), int64(src.Width)*int64(src.Height), msg...)
		ratio := float64(src.Width) / float64(src.Height)
		assert.LessOrEqual(t, math.Abs(float64(leftover.Width)-float64(leftover.Height)*ratio), 1.0, msg...)
		assert.Zero(t, leftover.CutArea)
	}
}

func TestComputeRemnant_Fail_OverCutBoundary(t *testing.T) {
	src := sheet("c1", 1000, 1000, 1)
	whole := []domain.CutRequest{{Width: 1000, Height: 1000}}
	oneMore := []domain.CutRequest{{Width: 1000, Height: 1000}, {Width: 1, Height: 1}}

	// Lote que consome exatamente a origem: integral aceita, proporcional não tem o que sobrar.
	leftover, err := cutservice.ComputeRemnant(src, whole, domain.PolicyFullFootprint, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, leftover.AvailableArea(), 1e-12)

	_, err = cutservice.ComputeRemnant(src, whole, domain.PolicyProportional, nil)
	reason, _ := apperror.RejectionReason(err)
	assert.Equal(t, apperror.ReasonOverCut, reason)

	for _, policy := range []domain.RemnantPolicy{domain.PolicyFullFootprint, domain.PolicyProportional} {
		_, err := cutservice.ComputeRemnant(src, oneMore, policy, nil)
		reason, ok := apperror.RejectionReason(err)
		require.True(t, ok, string(policy))
		assert.Equal(t, apperror.ReasonOverCut, reason, string(policy))
	}
}
