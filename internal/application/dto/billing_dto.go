package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateBillingRequest body para POST /api/orders/:id/billing.
type GenerateBillingRequest struct {
	Observations string `json:"observations,omitempty" validate:"max=1000"`
}

// RemoveModalityRequest body para POST /api/billings/:id/remove-modality.
type RemoveModalityRequest struct {
	ContractID string `json:"contract_id" validate:"required,uuid"`
	ModalityID string `json:"modality_id" validate:"required,uuid"`
}

// BillingPreview reparto propuesto de un pedido por contrato, ítem y modalidad.
// Alerts lista los ítems excluidos; no son errores.
type BillingPreview struct {
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Contracts   []ContractPreview `json:"contracts"`
	Alerts      []PreviewAlert    `json:"alerts"`
	Resumo      PreviewSummary    `json:"resumo"`
}

// ContractPreview ítems facturables de un contrato.
type ContractPreview struct {
	ContractID     string          `json:"contract_id"`
	ContractNumber string          `json:"contract_number,omitempty"`
	Items          []ItemPreview   `json:"items"`
	TotalValue     decimal.Decimal `json:"total_value" swaggertype:"string"`
}

// ItemPreview reparto de un ítem del pedido.
type ItemPreview struct {
	OrderItemID string            `json:"order_item_id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name,omitempty"`
	Quantity    int64             `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price" swaggertype:"string"`
	TotalValue  decimal.Decimal   `json:"total_value" swaggertype:"string"`
	Modalities  []ModalityPreview `json:"modalities"`
}

// ModalityPreview porción de un ítem para una modalidad.
type ModalityPreview struct {
	ModalityID   string          `json:"modality_id"`
	ModalityName string          `json:"modality_name"`
	ModalityCode string          `json:"modality_code,omitempty"`
	BalanceID    string          `json:"balance_id"`
	Percentual   decimal.Decimal `json:"percentual" swaggertype:"string"` // percentual renormalizado por repasse
	Quantity     int64           `json:"quantity"`
	Available    int64           `json:"available"`
	Value        decimal.Decimal `json:"value" swaggertype:"string"`
}

// PreviewAlert motivo por el que un ítem quedó fuera del faturamento.
type PreviewAlert struct {
	OrderItemID string `json:"order_item_id"`
	ContractID  string `json:"contract_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Required    int64  `json:"required"`
	Available   int64  `json:"available"`
	Shortfall   int64  `json:"shortfall"`
}

// PreviewSummary agregados del preview.
type PreviewSummary struct {
	TotalContracts int             `json:"total_contracts"`
	TotalItems     int             `json:"total_items"`
	BillableItems  int             `json:"billable_items"`
	ExcludedItems  int             `json:"excluded_items"`
	TotalQuantity  int64           `json:"total_quantity"`
	TotalValue     decimal.Decimal `json:"total_value" swaggertype:"string"`
}

// BillingResponse faturamento con sus ítems.
type BillingResponse struct {
	ID           string                `json:"id"`
	TenantID     string                `json:"tenant_id"`
	OrderID      string                `json:"order_id"`
	Number       string                `json:"number"`
	Status       string                `json:"status"`
	TotalValue   decimal.Decimal       `json:"total_value" swaggertype:"string"`
	Observations string                `json:"observations,omitempty"`
	CreatedBy    string                `json:"created_by,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	Items        []BillingItemResponse `json:"items"`
}

// BillingItemResponse porción persistida de un ítem.
type BillingItemResponse struct {
	ID                      string          `json:"id"`
	OrderItemID             string          `json:"order_item_id"`
	ModalityID              string          `json:"modality_id"`
	ContractID              string          `json:"contract_id"`
	ProductID               string          `json:"product_id"`
	QuantityOriginal        int64           `json:"quantity_original"`
	QuantityModality        int64           `json:"quantity_modality"`
	PercentualModality      decimal.Decimal `json:"percentual_modality" swaggertype:"string"`
	UnitPrice               decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Value                   decimal.Decimal `json:"value" swaggertype:"string"`
	ConsumptionRegistered   bool            `json:"consumption_registered"`
	ConsumptionRegisteredAt *time.Time      `json:"consumption_registered_at,omitempty"`
}

// GenerateBillingResponse respuesta de la generación: faturamento persistido y el preview usado.
type GenerateBillingResponse struct {
	Billing BillingResponse `json:"billing"`
	Preview BillingPreview  `json:"preview"`
}

// RemoveModalityResponse resultado de quitar una modalidad de un faturamento.
type RemoveModalityResponse struct {
	Billing             BillingResponse `json:"billing"`
	RemovedItems        int             `json:"removed_items"`
	RemovedQuantity     int64           `json:"removed_quantity"`
	ConsumptionAdjusted bool            `json:"consumption_adjusted"`
}

// MovementResponse movimiento del historial de consumo de un saldo.
type MovementResponse struct {
	ID            string    `json:"id"`
	BalanceID     string    `json:"balance_id"`
	BillingItemID string    `json:"billing_item_id,omitempty"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	Note          string    `json:"note"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse página del historial de un saldo.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
