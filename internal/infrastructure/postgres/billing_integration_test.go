//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Merenda-api/internal/application/billing"
	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Merenda-api/pkg/config"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// seed contiene los IDs creados para un escenario.
type seed struct {
	tenant, order, contract, product string
	modPNAE, modPNAC                 string
	balancePNAE, balancePNAC         string
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("merenda_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10, MinConns: 1, LockTimeoutMs: 5000})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func seedScenario(t *testing.T, pool *pgxpool.Pool) seed {
	t.Helper()
	ctx := context.Background()
	s := seed{
		tenant: uuid.NewString(), order: uuid.NewString(), contract: uuid.NewString(), product: uuid.NewString(),
		modPNAE: uuid.NewString(), modPNAC: uuid.NewString(),
		balancePNAE: uuid.NewString(), balancePNAC: uuid.NewString(),
	}
	cp := uuid.NewString()
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO modalities (id, tenant_id, name, code, repasse) VALUES ($1, $2, 'PNAE', 'PNAE', 60), ($3, $2, 'PNAC', 'PNAC', 40)`,
			[]any{s.modPNAE, s.tenant, s.modPNAC}},
		{`INSERT INTO contracts (id, tenant_id, number) VALUES ($1, $2, 'CT-001')`, []any{s.contract, s.tenant}},
		{`INSERT INTO products (id, tenant_id, name) VALUES ($1, $2, 'Arroz')`, []any{s.product, s.tenant}},
		{`INSERT INTO contract_products (id, tenant_id, contract_id, product_id, unit_price) VALUES ($1, $2, $3, $4, 2.5)`,
			[]any{cp, s.tenant, s.contract, s.product}},
		{`INSERT INTO modality_balances (id, tenant_id, contract_id, product_id, modality_id, initial_quantity)
		  VALUES ($1, $2, $3, $4, $5, 100), ($6, $2, $3, $4, $7, 100)`,
			[]any{s.balancePNAE, s.tenant, s.contract, s.product, s.modPNAE, s.balancePNAC, s.modPNAC}},
		{`INSERT INTO orders (id, tenant_id, number, status) VALUES ($1, $2, 'PED-42', 'APPROVED')`, []any{s.order, s.tenant}},
		{`INSERT INTO order_items (id, order_id, contract_product_id, quantity, unit_price) VALUES ($1, $2, $3, 10, 2.5)`,
			[]any{uuid.NewString(), s.order, cp}},
	}
	for _, st := range stmts {
		_, err := pool.Exec(ctx, st.sql, st.args...)
		require.NoError(t, err, st.sql)
	}
	return s
}

func consumed(t *testing.T, pool *pgxpool.Pool, balanceID string) (consumed, available int64) {
	t.Helper()
	err := pool.QueryRow(context.Background(),
		`SELECT consumed_quantity, available_quantity FROM modality_balances WHERE id = $1`, balanceID).Scan(&consumed, &available)
	require.NoError(t, err)
	return consumed, available
}

func TestIntegration_GeneracionConcurrente(t *testing.T) {
	pool := newTestPool(t)
	s := seedScenario(t, pool)
	uc := billing.NewGenerateBillingUseCase(postgres.NewTxRunner(pool), postgres.NewRepositories(pool), logger.Nop(), nil, 6)

	const attempts = 5
	var (
		mu        sync.Mutex
		succeeded []string
		dup       int
	)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			res, err := uc.Generate(ctx, s.tenant, "user-1", s.order, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded = append(succeeded, res.Billing.ID)
			case errors.Is(err, domain.ErrDuplicateBilling):
				dup++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, succeeded, 1)
	assert.Equal(t, attempts-1, dup)

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT count(*) FROM billings WHERE order_id = $1`, s.order).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestIntegration_ConsumoYRedistribucion(t *testing.T) {
	pool := newTestPool(t)
	s := seedScenario(t, pool)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool)
	repos := postgres.NewRepositories(pool)

	gen, err := billing.NewGenerateBillingUseCase(tx, repos, logger.Nop(), nil, 6).Generate(ctx, s.tenant, "user-1", s.order, "obs")
	require.NoError(t, err)
	assert.Equal(t, "000001/"+time.Now().Format("2006"), gen.Billing.Number)
	require.Len(t, gen.Billing.Items, 2)

	cons := billing.NewConsumptionUseCase(tx, repos, logger.Nop(), nil)
	out, err := cons.RegisterAll(ctx, s.tenant, "user-1", gen.Billing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillingStatusConsumed, out.Status)
	c, avail := consumed(t, pool, s.balancePNAE)
	assert.Equal(t, int64(6), c)
	assert.Equal(t, int64(94), avail)

	_, err = cons.RegisterAll(ctx, s.tenant, "user-1", gen.Billing.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyConsumed)

	removed, err := billing.NewRemoveModalityUseCase(tx, logger.Nop(), nil).
		RemoveModalityItems(ctx, s.tenant, "user-1", gen.Billing.ID, s.contract, s.modPNAC)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed.RemovedQuantity)
	require.Len(t, removed.Billing.Items, 1)
	assert.Equal(t, int64(10), removed.Billing.Items[0].QuantityModality)

	c, _ = consumed(t, pool, s.balancePNAC)
	assert.Equal(t, int64(0), c)
	c, _ = consumed(t, pool, s.balancePNAE)
	assert.Equal(t, int64(10), c)

	movs, err := cons.ListMovements(ctx, s.tenant, s.balancePNAC, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, movs.Items, 2)
	assert.Equal(t, entity.MovementTypeReverse, movs.Items[0].Type)
	assert.Empty(t, movs.Items[1].BillingItemID)

	_, err = cons.ReverseAll(ctx, s.tenant, "user-1", gen.Billing.ID)
	require.NoError(t, err)
	c, _ = consumed(t, pool, s.balancePNAE)
	assert.Equal(t, int64(0), c)
}

func TestIntegration_IndiceUnicoPorPedido(t *testing.T) {
	pool := newTestPool(t)
	s := seedScenario(t, pool)
	ctx := context.Background()
	repo := postgres.NewBillingRepository(pool)

	newBilling := func(seq int64) *entity.Billing {
		now := time.Now()
		return &entity.Billing{
			ID: uuid.NewString(), TenantID: s.tenant, OrderID: s.order, Number: entity.FormatBillingNumber(seq, now.Year(), 6),
			Year: now.Year(), Sequence: seq, Status: entity.BillingStatusGenerated, CreatedAt: now, UpdatedAt: now,
		}
	}
	require.NoError(t, repo.Create(ctx, newBilling(1)))
	assert.ErrorIs(t, repo.Create(ctx, newBilling(2)), domain.ErrDuplicateBilling)
}

func TestIntegration_SecuenciaPorAnio(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewBillingSequenceRepository(pool)
	tenant := uuid.NewString()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, tenant, 2025)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := repo.Next(ctx, tenant, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestIntegration_MigracionesVersionadas(t *testing.T) {
	pool := newTestPool(t)

	version, dirty, err := postgres.MigrationVersion(pool)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Una segunda pasada no reaplica nada.
	require.NoError(t, postgres.Migrate(context.Background(), pool))
	version, _, err = postgres.MigrationVersion(pool)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT count(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
