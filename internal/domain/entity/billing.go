package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del faturamento.
const (
	BillingStatusGenerated = "GENERATED" // reparto declarado, saldo sin debitar
	BillingStatusConsumed  = "CONSUMED"  // todos los ítems con consumo registrado
	BillingStatusDeleted   = "DELETED"   // borrado por la ruta externa de eliminación del pedido
)

// Billing es la cabecera del faturamento de un pedido (máximo uno no borrado por pedido).
type Billing struct {
	ID           string
	TenantID     string
	OrderID      string
	Number       string // NNNNNN/AAAA
	Year         int
	Sequence     int64
	Status       string
	TotalValue   decimal.Decimal
	Observations string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FormatBillingNumber arma el número legible del faturamento con el consecutivo del año.
func FormatBillingNumber(sequence int64, year, width int) string {
	if width <= 0 {
		width = 6
	}
	return fmt.Sprintf("%0*d/%d", width, sequence, year)
}

// SyncStatus deja el estado en CONSUMED si y solo si todos los ítems tienen consumo registrado.
// Devuelve true si el estado cambió.
func (b *Billing) SyncStatus(items []*BillingItem) bool {
	if b.Status == BillingStatusDeleted {
		return false
	}
	next := BillingStatusGenerated
	if len(items) > 0 {
		next = BillingStatusConsumed
		for _, it := range items {
			if !it.ConsumptionRegistered {
				next = BillingStatusGenerated
				break
			}
		}
	}
	if next == b.Status {
		return false
	}
	b.Status = next
	return true
}

// RecalculateTotal suma el valor de los ítems.
func (b *Billing) RecalculateTotal(items []*BillingItem) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value)
	}
	b.TotalValue = total
}
