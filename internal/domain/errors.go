package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de faturamento por modalidad.
	ErrDuplicateBilling       = errors.New("ya existe un faturamento para el pedido")
	ErrInsufficientBalance    = errors.New("saldo insuficiente")
	ErrInvalidOrderState      = errors.New("el pedido no está en un estado facturable")
	ErrAlreadyConsumed        = errors.New("consumo ya registrado")
	ErrNotRegistered          = errors.New("consumo no registrado")
	ErrModalityNotFound       = errors.New("modalidad o saldo no encontrado")
	ErrNoRedistributionTarget = errors.New("no hay otra modalidad para redistribuir")
	ErrConfiguration          = errors.New("configuración de modalidades inválida")
	ErrInternalAllocation     = errors.New("error interno de asignación")
)

// ConfigurationError indica que las modalidades activas no permiten calcular percentuales.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return ErrConfiguration.Error() + ": " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// InternalAllocationError se devuelve cuando un invariante del asignador no se cumple.
// Es un bug de lógica: nunca debe ignorarse.
type InternalAllocationError struct {
	Op     string
	Detail string
}

func (e *InternalAllocationError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrInternalAllocation.Error(), e.Op, e.Detail)
}

func (e *InternalAllocationError) Unwrap() error { return ErrInternalAllocation }

// BalanceShortfall detalla el faltante de una modalidad (o del agregado si ModalityID es vacío).
type BalanceShortfall struct {
	ContractID string `json:"contract_id"`
	ProductID  string `json:"product_id"`
	ModalityID string `json:"modality_id,omitempty"`
	Required   int64  `json:"required"`
	Available  int64  `json:"available"`
}

// Missing devuelve cuánto falta para cubrir lo requerido.
func (s BalanceShortfall) Missing() int64 {
	if s.Required <= s.Available {
		return 0
	}
	return s.Required - s.Available
}

// InsufficientBalanceError lleva el detalle de los saldos que no alcanzan.
type InsufficientBalanceError struct {
	Details []BalanceShortfall
}

func (e *InsufficientBalanceError) Error() string {
	if len(e.Details) == 0 {
		return ErrInsufficientBalance.Error()
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		target := d.ContractID + "/" + d.ProductID
		if d.ModalityID != "" {
			target += "/" + d.ModalityID
		}
		parts = append(parts, fmt.Sprintf("%s requerido=%d disponible=%d faltante=%d", target, d.Required, d.Available, d.Missing()))
	}
	return ErrInsufficientBalance.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// NoBillableItemsError: ningún ítem del pedido sobrevivió a la verificación de saldo.
// Alerts contiene el motivo de exclusión de cada ítem.
type NoBillableItemsError struct {
	Alerts []string
}

func (e *NoBillableItemsError) Error() string {
	msg := "ningún ítem del pedido tiene saldo para facturar"
	if len(e.Alerts) > 0 {
		msg += ": " + strings.Join(e.Alerts, "; ")
	}
	return msg
}

func (e *NoBillableItemsError) Unwrap() error { return ErrInsufficientBalance }

// InvalidOrderStateError indica el estado actual del pedido que impide facturarlo.
type InvalidOrderStateError struct {
	OrderID string
	Status  string
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("%s: pedido %s en estado %s", ErrInvalidOrderState.Error(), e.OrderID, e.Status)
}

func (e *InvalidOrderStateError) Unwrap() error { return ErrInvalidOrderState }
