package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusPending   = "PENDING"
	OrderStatusApproved  = "APPROVED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Order representa un pedido de compra a proveedores.
type Order struct {
	ID        string
	TenantID  string
	Number    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Billable indica si el pedido puede facturarse (no borrador ni cancelado).
func (o *Order) Billable() bool {
	return o.Status != OrderStatusDraft && o.Status != OrderStatusCancelled && o.Status != ""
}

// OrderItem es una línea del pedido ligada a un contrato-producto.
type OrderItem struct {
	ID                string
	OrderID           string
	ContractProductID string
	ContractID        string
	ContractNumber    string // lectura
	ProductID         string
	ProductName       string // lectura
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
}
