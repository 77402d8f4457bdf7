package allocation_test

import (
	"testing"

	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/allocation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePercentages_ProporcionalAlRepasse(t *testing.T) {
	shares, err := allocation.CalculatePercentages([]allocation.Weight{
		{Key: "pnae", Repasse: decimal.NewFromFloat(0.36)},
		{Key: "municipal", Repasse: decimal.NewFromFloat(0.24)},
	})
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.True(t, shares[0].Percentual.Equal(decimal.NewFromInt(60)), "pnae = %s", shares[0].Percentual)
	assert.True(t, shares[1].Percentual.Equal(decimal.NewFromInt(40)), "municipal = %s", shares[1].Percentual)
}

func TestCalculatePercentages_ConservaOrden(t *testing.T) {
	shares, err := allocation.CalculatePercentages([]allocation.Weight{
		{Key: "c", Repasse: decimal.NewFromInt(1)},
		{Key: "a", Repasse: decimal.NewFromInt(1)},
		{Key: "b", Repasse: decimal.NewFromInt(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "c", shares[0].Key)
	assert.Equal(t, "a", shares[1].Key)
	assert.Equal(t, "b", shares[2].Key)
	assert.True(t, shares[2].Percentual.Equal(decimal.NewFromInt(50)))
}

func TestCalculatePercentages_Errores(t *testing.T) {
	cases := []struct {
		name    string
		weights []allocation.Weight
	}{
		{"sin modalidades", nil},
		{"suma cero", []allocation.Weight{{Key: "a", Repasse: decimal.Zero}, {Key: "b", Repasse: decimal.Zero}}},
		{"repasse negativo", []allocation.Weight{{Key: "a", Repasse: decimal.NewFromInt(-1)}, {Key: "b", Repasse: decimal.NewFromInt(3)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := allocation.CalculatePercentages(tc.weights)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			var cfgErr *domain.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
