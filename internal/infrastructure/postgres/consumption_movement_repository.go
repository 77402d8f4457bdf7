package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/internal/domain/repository"
)

var _ repository.ConsumptionMovementRepository = (*ConsumptionMovementRepo)(nil)

// ConsumptionMovementRepo historial de consumo de los saldos.
type ConsumptionMovementRepo struct {
	q Querier
}

// NewConsumptionMovementRepository construye el adaptador.
func NewConsumptionMovementRepository(q Querier) *ConsumptionMovementRepo {
	return &ConsumptionMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, balance_id, billing_item_id, type, quantity, note, COALESCE(created_by, ''), created_at`

// Create inserta un movimiento.
func (r *ConsumptionMovementRepo) Create(ctx context.Context, m *entity.ConsumptionMovement) error {
	query := `
		INSERT INTO consumption_movements (id, tenant_id, balance_id, billing_item_id, type, quantity, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.BalanceID, nullIfEmpty(m.BillingItemID), m.Type, m.Quantity, m.Note, nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert consumption movement: %w", err)
	}
	return nil
}

// DeleteConsumeByBillingItem elimina los CONSUMO ligados al ítem y devuelve las filas borradas.
func (r *ConsumptionMovementRepo) DeleteConsumeByBillingItem(ctx context.Context, tenantID, billingItemID string) ([]*entity.ConsumptionMovement, error) {
	query := `
		DELETE FROM consumption_movements
		WHERE tenant_id = $1 AND billing_item_id = $2 AND type = 'CONSUMO'
		RETURNING ` + movementColumns
	rows, err := r.q.Query(ctx, query, tenantID, billingItemID)
	if err != nil {
		return nil, fmt.Errorf("delete consumption movements: %w", err)
	}
	return collectMovements(rows)
}

// ListByBalance lista el historial del saldo, más reciente primero.
func (r *ConsumptionMovementRepo) ListByBalance(ctx context.Context, tenantID, balanceID string, limit, offset int) ([]*entity.ConsumptionMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM consumption_movements
		WHERE tenant_id = $1 AND balance_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, balanceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list consumption movements: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.ConsumptionMovement, error) {
	defer rows.Close()
	var out []*entity.ConsumptionMovement
	for rows.Next() {
		var (
			m      entity.ConsumptionMovement
			itemID *string
		)
		if err := rows.Scan(&m.ID, &m.TenantID, &m.BalanceID, &itemID, &m.Type, &m.Quantity, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consumption movement: %w", err)
		}
		if itemID != nil {
			m.BillingItemID = *itemID
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
