package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingItem es la porción de un ítem del pedido asignada a una modalidad.
type BillingItem struct {
	ID                      string
	TenantID                string
	BillingID               string
	OrderItemID             string
	ModalityID              string
	ContractID              string
	ProductID               string
	QuantityOriginal        int64           // cantidad total del ítem del pedido
	QuantityModality        int64           // porción de esta modalidad
	PercentualModality      decimal.Decimal // QuantityModality / QuantityOriginal * 100
	UnitPrice               decimal.Decimal
	Value                   decimal.Decimal
	ConsumptionRegistered   bool
	ConsumptionRegisteredAt *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// SetQuantity actualiza cantidad, valor y percentual de la porción.
func (i *BillingItem) SetQuantity(quantity int64) {
	i.QuantityModality = quantity
	i.Value = ItemValue(quantity, i.UnitPrice)
	i.PercentualModality = EffectivePercentual(quantity, i.QuantityOriginal)
}

// ItemValue calcula cantidad * precio unitario redondeado a centavos.
func ItemValue(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice).Round(2)
}

// EffectivePercentual devuelve quantity/original*100 con 4 decimales (0 si original es 0).
func EffectivePercentual(quantity, original int64) decimal.Decimal {
	if original <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(quantity).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(original)).Round(4)
}
