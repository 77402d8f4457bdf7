package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/internal/domain/repository"
)

var _ repository.BillingRepository = (*BillingRepo)(nil)

// BillingRepo implementación de BillingRepository sobre PostgreSQL (usable con pool o tx).
type BillingRepo struct {
	q Querier
}

// NewBillingRepository construye el adaptador de faturamentos.
func NewBillingRepository(q Querier) *BillingRepo {
	return &BillingRepo{q: q}
}

const billingColumns = `id, tenant_id, order_id, number, year, sequence, status, total_value,
	COALESCE(observations, ''), COALESCE(created_by, ''), created_at, updated_at`

const billingItemColumns = `id, tenant_id, billing_id, order_item_id, modality_id, contract_id, product_id,
	quantity_original, quantity_modality, percentual_modality, unit_price, value,
	consumption_registered, consumption_registered_at, created_at, updated_at`

// Create inserta la cabecera. La violación del índice único por pedido se traduce a ErrDuplicateBilling.
func (r *BillingRepo) Create(ctx context.Context, b *entity.Billing) error {
	query := `
		INSERT INTO billings (id, tenant_id, order_id, number, year, sequence, status, total_value, observations, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.TenantID, b.OrderID, b.Number, b.Year, b.Sequence, b.Status, b.TotalValue,
		nullIfEmpty(b.Observations), nullIfEmpty(b.CreatedBy), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "billings_order_active_uq" {
				return domain.ErrDuplicateBilling
			}
			return fmt.Errorf("%w: %s", domain.ErrConflict, constraintName(err))
		}
		return fmt.Errorf("insert billing: %w", err)
	}
	return nil
}

// CreateItem inserta un ítem del faturamento.
func (r *BillingRepo) CreateItem(ctx context.Context, it *entity.BillingItem) error {
	query := `
		INSERT INTO billing_items (` + billingItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.TenantID, it.BillingID, it.OrderItemID, it.ModalityID, it.ContractID, it.ProductID,
		it.QuantityOriginal, it.QuantityModality, it.PercentualModality, it.UnitPrice, it.Value,
		it.ConsumptionRegistered, it.ConsumptionRegisteredAt, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert billing item: %w", err)
	}
	return nil
}

func scanBilling(row pgx.Row) (*entity.Billing, error) {
	var b entity.Billing
	err := row.Scan(&b.ID, &b.TenantID, &b.OrderID, &b.Number, &b.Year, &b.Sequence, &b.Status, &b.TotalValue,
		&b.Observations, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BillingRepo) getOne(ctx context.Context, op, where string, args ...any) (*entity.Billing, error) {
	b, err := scanBilling(r.q.QueryRow(ctx, `SELECT `+billingColumns+` FROM billings WHERE `+where, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// GetByID obtiene el faturamento del tenant. nil, nil si no existe.
func (r *BillingRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Billing, error) {
	return r.getOne(ctx, "get billing", `tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetForUpdate obtiene el faturamento y bloquea la fila.
func (r *BillingRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Billing, error) {
	return r.getOne(ctx, "get billing for update", `tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

// GetActiveByOrder devuelve el faturamento no borrado del pedido, o nil.
func (r *BillingRepo) GetActiveByOrder(ctx context.Context, tenantID, orderID string) (*entity.Billing, error) {
	return r.getOne(ctx, "get billing by order", `tenant_id = $1 AND order_id = $2 AND status <> 'DELETED'`, tenantID, orderID)
}

// GetActiveByOrderForUpdate igual que GetActiveByOrder pero bloquea la fila encontrada.
func (r *BillingRepo) GetActiveByOrderForUpdate(ctx context.Context, tenantID, orderID string) (*entity.Billing, error) {
	return r.getOne(ctx, "get billing by order for update", `tenant_id = $1 AND order_id = $2 AND status <> 'DELETED' FOR UPDATE`, tenantID, orderID)
}

// UpdateHeader persiste estado y valor total.
func (r *BillingRepo) UpdateHeader(ctx context.Context, b *entity.Billing) error {
	query := `UPDATE billings SET status = $3, total_value = $4, updated_at = $5 WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, b.TenantID, b.ID, b.Status, b.TotalValue, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update billing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BillingRepo) listItems(ctx context.Context, suffix string, tenantID, billingID string) ([]*entity.BillingItem, error) {
	query := `SELECT ` + billingItemColumns + ` FROM billing_items WHERE tenant_id = $1 AND billing_id = $2 ORDER BY created_at, id` + suffix
	rows, err := r.q.Query(ctx, query, tenantID, billingID)
	if err != nil {
		return nil, fmt.Errorf("list billing items: %w", err)
	}
	defer rows.Close()
	var out []*entity.BillingItem
	for rows.Next() {
		it, err := scanBillingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billing item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanBillingItem(row pgx.Row) (*entity.BillingItem, error) {
	var it entity.BillingItem
	err := row.Scan(&it.ID, &it.TenantID, &it.BillingID, &it.OrderItemID, &it.ModalityID, &it.ContractID, &it.ProductID,
		&it.QuantityOriginal, &it.QuantityModality, &it.PercentualModality, &it.UnitPrice, &it.Value,
		&it.ConsumptionRegistered, &it.ConsumptionRegisteredAt, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems lista los ítems del faturamento.
func (r *BillingRepo) ListItems(ctx context.Context, tenantID, billingID string) ([]*entity.BillingItem, error) {
	return r.listItems(ctx, "", tenantID, billingID)
}

// ListItemsForUpdate lista y bloquea los ítems del faturamento.
func (r *BillingRepo) ListItemsForUpdate(ctx context.Context, tenantID, billingID string) ([]*entity.BillingItem, error) {
	return r.listItems(ctx, " FOR UPDATE", tenantID, billingID)
}

// GetItemForUpdate obtiene y bloquea un ítem del faturamento. nil, nil si no existe.
func (r *BillingRepo) GetItemForUpdate(ctx context.Context, tenantID, billingID, itemID string) (*entity.BillingItem, error) {
	query := `SELECT ` + billingItemColumns + ` FROM billing_items WHERE tenant_id = $1 AND billing_id = $2 AND id = $3 FOR UPDATE`
	it, err := scanBillingItem(r.q.QueryRow(ctx, query, tenantID, billingID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing item for update: %w", err)
	}
	return it, nil
}

// UpdateItem persiste cantidad, percentual, valor y marca de consumo.
func (r *BillingRepo) UpdateItem(ctx context.Context, it *entity.BillingItem) error {
	query := `
		UPDATE billing_items
		SET quantity_modality = $3, percentual_modality = $4, value = $5,
		    consumption_registered = $6, consumption_registered_at = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, it.TenantID, it.ID,
		it.QuantityModality, it.PercentualModality, it.Value,
		it.ConsumptionRegistered, it.ConsumptionRegisteredAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update billing item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItems borra ítems del faturamento; sus movimientos quedan con billing_item_id NULL.
func (r *BillingRepo) DeleteItems(ctx context.Context, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM billing_items WHERE tenant_id = $1 AND id = ANY($2::uuid[])`
	if _, err := r.q.Exec(ctx, query, tenantID, ids); err != nil {
		return fmt.Errorf("delete billing items: %w", err)
	}
	return nil
}
