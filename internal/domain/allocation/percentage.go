// Package allocation contiene los servicios de dominio puros del reparto por modalidad:
// percentuales por repasse, reparto entero por mayor resto y ajuste a saldos.
package allocation

import (
	"fmt"

	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Weight es el repasse de una modalidad identificada por Key.
type Weight struct {
	Key     string
	Repasse decimal.Decimal
}

// Share es el percentual (0-100) asignado a Key.
type Share struct {
	Key        string
	Percentual decimal.Decimal
}

// CalculatePercentages deriva percentual_i = repasse_i / Σrepasse * 100.
// Devuelve ConfigurationError si no hay modalidades, algún repasse es negativo o la suma es <= 0.
func CalculatePercentages(weights []Weight) ([]Share, error) {
	if len(weights) == 0 {
		return nil, &domain.ConfigurationError{Reason: "no hay modalidades activas"}
	}
	total := decimal.Zero
	for _, w := range weights {
		if w.Repasse.IsNegative() {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("repasse negativo en la modalidad %s", w.Key)}
		}
		total = total.Add(w.Repasse)
	}
	if !total.IsPositive() {
		return nil, &domain.ConfigurationError{Reason: "la suma de repasse debe ser mayor que cero"}
	}
	shares := make([]Share, len(weights))
	for i, w := range weights {
		shares[i] = Share{Key: w.Key, Percentual: w.Repasse.Mul(hundred).Div(total)}
	}
	return shares, nil
}
