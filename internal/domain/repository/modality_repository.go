package repository

import (
	"context"

	"github.com/jhoicas/Merenda-api/internal/domain/entity"
)

// ModalityRepository define el puerto de lectura de modalidades (por tenant).
type ModalityRepository interface {
	ListActive(ctx context.Context, tenantID string) ([]*entity.Modality, error)
	// GetByIDs devuelve las modalidades pedidas, activas o no. Las ausentes no aparecen en el resultado.
	GetByIDs(ctx context.Context, tenantID string, ids []string) ([]*entity.Modality, error)
}
