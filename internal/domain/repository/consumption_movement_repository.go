package repository

import (
	"context"

	"github.com/jhoicas/Merenda-api/internal/domain/entity"
)

// ConsumptionMovementRepository define el puerto del historial de consumo.
type ConsumptionMovementRepository interface {
	Create(ctx context.Context, movement *entity.ConsumptionMovement) error
	// DeleteConsumeByBillingItem elimina los movimientos CONSUMO ligados al ítem y los devuelve.
	DeleteConsumeByBillingItem(ctx context.Context, tenantID, billingItemID string) ([]*entity.ConsumptionMovement, error)
	ListByBalance(ctx context.Context, tenantID, balanceID string, limit, offset int) ([]*entity.ConsumptionMovement, error)
}
