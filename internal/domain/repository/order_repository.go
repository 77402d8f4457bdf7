package repository

import (
	"context"

	"github.com/jhoicas/Merenda-api/internal/domain/entity"
)

// OrderRepository define el puerto de lectura de pedidos (el CRUD vive fuera del motor).
type OrderRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido durante la generación del faturamento.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error)
	ListItems(ctx context.Context, tenantID, orderID string) ([]*entity.OrderItem, error)
}
