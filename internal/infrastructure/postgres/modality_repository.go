package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/internal/domain/repository"
)

var _ repository.ModalityRepository = (*ModalityRepo)(nil)

// ModalityRepo implementación de ModalityRepository sobre PostgreSQL (usable con pool o tx).
type ModalityRepo struct {
	q Querier
}

// NewModalityRepository construye el adaptador de modalidades.
func NewModalityRepository(q Querier) *ModalityRepo {
	return &ModalityRepo{q: q}
}

const modalityColumns = `id, tenant_id, name, COALESCE(code, ''), repasse, active, created_at, updated_at`

// ListActive lista las modalidades activas del tenant ordenadas por nombre.
func (r *ModalityRepo) ListActive(ctx context.Context, tenantID string) ([]*entity.Modality, error) {
	query := `SELECT ` + modalityColumns + ` FROM modalities WHERE tenant_id = $1 AND active ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list modalities: %w", err)
	}
	return collectModalities(rows)
}

// GetByIDs devuelve las modalidades pedidas (activas o no).
func (r *ModalityRepo) GetByIDs(ctx context.Context, tenantID string, ids []string) ([]*entity.Modality, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + modalityColumns + ` FROM modalities WHERE tenant_id = $1 AND id = ANY($2::uuid[]) ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("get modalities: %w", err)
	}
	return collectModalities(rows)
}

func collectModalities(rows pgx.Rows) ([]*entity.Modality, error) {
	defer rows.Close()
	var out []*entity.Modality
	for rows.Next() {
		var m entity.Modality
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.Code, &m.Repasse, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan modality: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
