package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo lectura de pedidos e ítems para el motor de faturamento.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) get(ctx context.Context, query, op string, args ...any) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, args...).Scan(&o.ID, &o.TenantID, &o.Number, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// GetByID obtiene el pedido del tenant. nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	query := `SELECT id, tenant_id, number, status, created_at, updated_at FROM orders WHERE tenant_id = $1 AND id = $2`
	return r.get(ctx, query, "get order", tenantID, id)
}

// GetForUpdate obtiene el pedido y bloquea la fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	query := `SELECT id, tenant_id, number, status, created_at, updated_at FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.get(ctx, query, "get order for update", tenantID, id)
}

// ListItems lista los ítems del pedido con su contrato y producto, en el orden del pedido.
func (r *OrderRepo) ListItems(ctx context.Context, tenantID, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.contract_product_id, cp.contract_id, c.number, cp.product_id, p.name,
		       oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN contract_products cp ON cp.id = oi.contract_product_id
		JOIN contracts c ON c.id = cp.contract_id
		JOIN products p ON p.id = cp.product_id
		WHERE o.tenant_id = $1 AND oi.order_id = $2
		ORDER BY oi.position, oi.id`
	rows, err := r.q.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var out []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ContractProductID, &it.ContractID, &it.ContractNumber,
			&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}
