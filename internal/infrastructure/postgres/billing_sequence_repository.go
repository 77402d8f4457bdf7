package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Merenda-api/internal/domain/repository"
)

var _ repository.BillingSequenceRepository = (*BillingSequenceRepo)(nil)

// BillingSequenceRepo consecutivo de faturamentos por tenant y año.
type BillingSequenceRepo struct {
	q Querier
}

// NewBillingSequenceRepository construye el adaptador.
func NewBillingSequenceRepository(q Querier) *BillingSequenceRepo {
	return &BillingSequenceRepo{q: q}
}

// Next incrementa el consecutivo del año. El upsert bloquea la fila hasta el fin de la transacción,
// así dos faturamentos concurrentes nunca reciben el mismo número.
func (r *BillingSequenceRepo) Next(ctx context.Context, tenantID string, year int) (int64, error) {
	query := `
		INSERT INTO billing_sequences (tenant_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year)
		DO UPDATE SET last_value = billing_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, tenantID, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next billing sequence: %w", err)
	}
	return n, nil
}
