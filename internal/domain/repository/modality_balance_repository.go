package repository

import (
	"context"

	"github.com/jhoicas/Merenda-api/internal/domain/entity"
)

// ModalityBalanceRepository define el puerto para los saldos por contrato-producto-modalidad.
// Las mutaciones solo deben hacerse sobre filas obtenidas con GetForUpdate dentro de la misma transacción.
type ModalityBalanceRepository interface {
	// ListByContractProduct lista los saldos activos de modalidades activas (sin bloqueo).
	ListByContractProduct(ctx context.Context, tenantID, contractID, productID string) ([]*entity.ModalityBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, tenantID, contractID, productID, modalityID string) (*entity.ModalityBalance, error)
	// UpdateConsumed persiste consumed_quantity de una fila previamente bloqueada.
	UpdateConsumed(ctx context.Context, balance *entity.ModalityBalance) error
}
