package repository

import "context"

// BillingSequenceRepository entrega el consecutivo de faturamento por tenant y año.
type BillingSequenceRepository interface {
	// Next incrementa y devuelve el siguiente número del año (el primero es 1).
	Next(ctx context.Context, tenantID string, year int) (int64, error)
}
