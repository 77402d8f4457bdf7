package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Merenda-api/internal/application/billing"
	"github.com/jhoicas/Merenda-api/internal/infrastructure/metrics"
)

func TestBillingMetrics_Contadores(t *testing.T) {
	m := metrics.New()

	m.BillingGenerated(4, 1, 250*time.Millisecond)
	m.BillingGenerated(2, 0, 10*time.Millisecond)
	m.BillingRejected("duplicate")
	m.ItemsExcluded("SALDO_INSUFICIENTE", 2)
	m.ItemsExcluded("SALDO_INSUFICIENTE", 0)
	m.ConsumptionChanged(billing.OpRegister, 3)
	m.ConsumptionChanged(billing.OpReverse, 1)
	m.ModalityRemoved(2, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BillingsGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillingsRejected.WithLabelValues("duplicate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ItemsExcludedTotal.WithLabelValues("SALDO_INSUFICIENTE")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ConsumptionItems.WithLabelValues(billing.OpRegister)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsumptionItems.WithLabelValues(billing.OpReverse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModalityRemovals))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RedistributedQtyTot))
}

func TestBillingMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.BillingRejected("invalid_order_state")

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `merenda_billings_rejected_total{reason="invalid_order_state"} 1`))
	assert.Contains(t, string(body), "go_goroutines")
}
