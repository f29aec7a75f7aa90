package cutservice_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/service/cutservice"
)

func TestValidate_Success_FitsExactly(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)

	assert.NoError(t, cutservice.Validate(src, domain.CutRequest{Width: 2000, Height: 3000}))
	assert.NoError(t, cutservice.Validate(src, domain.CutRequest{Width: 1, Height: 1}))
}

func TestValidate_Fail_ExceedsSource(t *testing.T) {
	src := sheet("c1", 2000, 3000, 10)

	err := cutservice.Validate(src, domain.CutRequest{Width: 2500, Height: 500})

	reason, ok := apperror.RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ReasonExceedsSource, reason)
}

func TestValidate_Fail_InvalidDimensions(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)

	for _, c := range []domain.CutRequest{{Width: 0, Height: 10}, {Width: 10, Height: 0}, {Width: -5, Height: 10}} {
		err := cutservice.Validate(src, c)
		reason, ok := apperror.RejectionReason(err)
		require.True(t, ok, "corte %v", c)
		assert.Equal(t, apperror.ReasonInvalidDimensions, reason)
	}
}

// Nenhuma rotação: um corte 3000x2000 não cabe numa chapa 2000x3000.
func TestValidate_Fail_NoRotation(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)

	err := cutservice.Validate(src, domain.CutRequest{Width: 3000, Height: 2000})

	reason, _ := apperror.RejectionReason(err)
	assert.Equal(t, apperror.ReasonExceedsSource, reason)
}

func TestValidate_Success_RandomDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	src := sheet("c1", 2000, 3000, 1)

	for i := 0; i < 1000; i++ {
		c := domain.CutRequest{Width: rng.Intn(4000) - 500, Height: rng.Intn(5000) - 500}
		err := cutservice.Validate(src, c)

		fits := c.Width > 0 && c.Height > 0 && c.Width <= src.Width && c.Height <= src.Height
		assert.Equal(t, fits, err == nil, "corte %dx%d", c.Width, c.Height)
	}
}

func TestValidateBatch_Success_VerdictPerCut(t *testing.T) {
	src := sheet("c1", 2000, 3000, 1)
	cuts := []domain.CutRequest{{Width: 700, Height: 500}, {Width: 2500, Height: 500}, {Width: 0, Height: 1}}

	verdicts := cutservice.ValidateBatch(src, cuts)

	require.Len(t, verdicts, 3)
	assert.True(t, verdicts[0].OK)
	assert.Empty(t, verdicts[0].Reason)
	assert.False(t, verdicts[1].OK)
	assert.Equal(t, string(apperror.ReasonExceedsSource), verdicts[1].Reason)
	assert.Equal(t, 1, verdicts[1].Index)
	assert.False(t, verdicts[2].OK)
	assert.Equal(t, string(apperror.ReasonInvalidDimensions), verdicts[2].Reason)
}
