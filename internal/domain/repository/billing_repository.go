package repository

import (
	"context"

	"github.com/jhoicas/Merenda-api/internal/domain/entity"
)

// BillingRepository define el puerto de persistencia para faturamentos e ítems.
// Los métodos *ForUpdate bloquean las filas y solo tienen sentido dentro de una transacción.
type BillingRepository interface {
	Create(ctx context.Context, billing *entity.Billing) error
	CreateItem(ctx context.Context, item *entity.BillingItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Billing, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Billing, error)
	// GetActiveByOrder devuelve el faturamento no borrado del pedido, o nil.
	GetActiveByOrder(ctx context.Context, tenantID, orderID string) (*entity.Billing, error)
	GetActiveByOrderForUpdate(ctx context.Context, tenantID, orderID string) (*entity.Billing, error)
	// UpdateHeader persiste estado y valor total.
	UpdateHeader(ctx context.Context, billing *entity.Billing) error

	ListItems(ctx context.Context, tenantID, billingID string) ([]*entity.BillingItem, error)
	ListItemsForUpdate(ctx context.Context, tenantID, billingID string) ([]*entity.BillingItem, error)
	GetItemForUpdate(ctx context.Context, tenantID, billingID, itemID string) (*entity.BillingItem, error)
	// UpdateItem persiste cantidad, percentual, valor y marca de consumo.
	UpdateItem(ctx context.Context, item *entity.BillingItem) error
	DeleteItems(ctx context.Context, tenantID string, ids []string) error
}
