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

var _ repository.ModalityBalanceRepository = (*ModalityBalanceRepo)(nil)

// ModalityBalanceRepo implementación de ModalityBalanceRepository sobre PostgreSQL.
type ModalityBalanceRepo struct {
	q Querier
}

// NewModalityBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewModalityBalanceRepository(q Querier) *ModalityBalanceRepo {
	return &ModalityBalanceRepo{q: q}
}

const balanceColumns = `b.id, b.tenant_id, b.contract_id, b.product_id, b.modality_id, m.name, COALESCE(m.code, ''),
	b.initial_quantity, b.consumed_quantity, b.active, b.updated_at`

func scanBalance(row pgx.Row) (*entity.ModalityBalance, error) {
	var b entity.ModalityBalance
	err := row.Scan(&b.ID, &b.TenantID, &b.ContractID, &b.ProductID, &b.ModalityID, &b.ModalityName, &b.ModalityCode,
		&b.InitialQuantity, &b.ConsumedQuantity, &b.Active, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByContractProduct lista los saldos activos de modalidades activas, sin bloqueo.
func (r *ModalityBalanceRepo) ListByContractProduct(ctx context.Context, tenantID, contractID, productID string) ([]*entity.ModalityBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM modality_balances b
		JOIN modalities m ON m.id = b.modality_id
		WHERE b.tenant_id = $1 AND b.contract_id = $2 AND b.product_id = $3
		  AND b.active AND m.active
		ORDER BY m.name, b.modality_id`
	rows, err := r.q.Query(ctx, query, tenantID, contractID, productID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var out []*entity.ModalityBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE OF b). nil, nil si no existe.
func (r *ModalityBalanceRepo) GetForUpdate(ctx context.Context, tenantID, contractID, productID, modalityID string) (*entity.ModalityBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM modality_balances b
		JOIN modalities m ON m.id = b.modality_id
		WHERE b.tenant_id = $1 AND b.contract_id = $2 AND b.product_id = $3 AND b.modality_id = $4
		FOR UPDATE OF b`
	b, err := scanBalance(r.q.QueryRow(ctx, query, tenantID, contractID, productID, modalityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// UpdateConsumed persiste consumed_quantity; el CHECK de la tabla impide que el disponible quede negativo.
func (r *ModalityBalanceRepo) UpdateConsumed(ctx context.Context, b *entity.ModalityBalance) error {
	query := `UPDATE modality_balances SET consumed_quantity = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, b.TenantID, b.ID, b.ConsumedQuantity, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
