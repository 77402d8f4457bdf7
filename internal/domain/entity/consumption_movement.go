package entity

import "time"

// Tipos de movimiento de consumo sobre un saldo.
const (
	MovementTypeConsume = "CONSUMO" // débito del saldo
	MovementTypeReverse = "ESTORNO" // devolución al saldo
)

// ConsumptionMovement es el historial (auditoría) de cambios en el consumido de un saldo.
// BillingItemID enlaza el movimiento con el ítem que lo originó; queda vacío si el ítem se eliminó.
type ConsumptionMovement struct {
	ID            string
	TenantID      string
	BalanceID     string
	BillingItemID string
	Type          string
	Quantity      int64 // positivo consumo, negativo estorno
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
}
