package entity

import (
	"fmt"
	"time"
)

// ModalityBalance es el saldo de una modalidad para un contrato-producto.
// Disponible = Inicial - Consumido; nunca puede quedar negativo.
// Solo se modifica con la fila bloqueada (SELECT FOR UPDATE).
type ModalityBalance struct {
	ID               string
	TenantID         string
	ContractID       string
	ProductID        string
	ModalityID       string
	ModalityName     string // lectura (join con modalities)
	ModalityCode     string // lectura
	InitialQuantity  int64
	ConsumedQuantity int64
	Active           bool
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible del saldo.
func (b *ModalityBalance) Available() int64 {
	return b.InitialQuantity - b.ConsumedQuantity
}

// Consume debita quantity del saldo; falla si el disponible no alcanza.
func (b *ModalityBalance) Consume(quantity int64, now time.Time) error {
	if quantity < 0 {
		return fmt.Errorf("consumo negativo: %d", quantity)
	}
	if b.Available() < quantity {
		return fmt.Errorf("saldo %s: disponible %d, requerido %d", b.ID, b.Available(), quantity)
	}
	b.ConsumedQuantity += quantity
	b.UpdatedAt = now
	return nil
}

// Restore devuelve quantity al saldo (estorno); el consumido no puede quedar negativo.
func (b *ModalityBalance) Restore(quantity int64, now time.Time) error {
	if quantity < 0 {
		return fmt.Errorf("estorno negativo: %d", quantity)
	}
	if b.ConsumedQuantity < quantity {
		return fmt.Errorf("saldo %s: consumido %d menor que estorno %d", b.ID, b.ConsumedQuantity, quantity)
	}
	b.ConsumedQuantity -= quantity
	b.UpdatedAt = now
	return nil
}
