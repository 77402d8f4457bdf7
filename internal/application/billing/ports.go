package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Merenda-api/internal/domain/repository"
)

// Repositories agrupa los puertos que usa el motor de faturamento.
// Dentro de TxRunner.Run todos quedan atados a la misma transacción.
type Repositories struct {
	Modalities repository.ModalityRepository
	Balances   repository.ModalityBalanceRepository
	Orders     repository.OrderRepository
	Billings   repository.BillingRepository
	Sequences  repository.BillingSequenceRepository
	Movements  repository.ConsumptionMovementRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Si fn retorna error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// Metrics recibe los eventos de negocio del motor (implementado con Prometheus en infraestructura).
type Metrics interface {
	BillingGenerated(items, excluded int, elapsed time.Duration)
	BillingRejected(reason string)
	ItemsExcluded(reason string, n int)
	ConsumptionChanged(op string, items int)
	ModalityRemoved(items int, quantity int64)
}

type nopMetrics struct{}

func (nopMetrics) BillingGenerated(int, int, time.Duration) {}
func (nopMetrics) BillingRejected(string)                   {}
func (nopMetrics) ItemsExcluded(string, int)                {}
func (nopMetrics) ConsumptionChanged(string, int)           {}
func (nopMetrics) ModalityRemoved(int, int64)               {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
