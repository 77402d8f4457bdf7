package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// GenerateBillingUseCase calcula el preview y genera el faturamento de un pedido.
type GenerateBillingUseCase struct {
	txRunner    TxRunner
	repos       Repositories
	log         *logger.Logger
	metrics     Metrics
	numberWidth int
	now         func() time.Time
}

// NewGenerateBillingUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewGenerateBillingUseCase(txRunner TxRunner, repos Repositories, log *logger.Logger, metrics Metrics, numberWidth int) *GenerateBillingUseCase {
	return &GenerateBillingUseCase{
		txRunner:    txRunner,
		repos:       repos,
		log:         log.Component("billing"),
		metrics:     metricsOrNop(metrics),
		numberWidth: numberWidth,
		now:         time.Now,
	}
}

// Preview devuelve el reparto propuesto sin persistir nada.
// Los ítems sin saldo aparecen en Alerts; no es un error que ninguno sea facturable.
func (uc *GenerateBillingUseCase) Preview(ctx context.Context, tenantID, orderID string) (*dto.BillingPreview, error) {
	if tenantID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var preview *dto.BillingPreview
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		order, err := repos.Orders.GetByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		preview, _, err = buildPreview(ctx, repos, tenantID, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return preview, nil
}

// Generate crea el faturamento del pedido en una sola transacción. No debita saldos:
// el consumo se registra después con ConsumptionUseCase.
func (uc *GenerateBillingUseCase) Generate(ctx context.Context, tenantID, userID, orderID, observations string) (*dto.GenerateBillingResponse, error) {
	if tenantID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	start := uc.now()

	var (
		billing *entity.Billing
		items   []*entity.BillingItem
		preview *dto.BillingPreview
	)
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		existing, err := repos.Billings.GetActiveByOrderForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBilling
		}

		order, err := repos.Orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		// Otro faturamento pudo confirmarse mientras esperábamos el bloqueo del pedido.
		existing, err = repos.Billings.GetActiveByOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBilling
		}
		if !order.Billable() {
			return &domain.InvalidOrderStateError{OrderID: order.ID, Status: order.Status}
		}

		var p *plan
		preview, p, err = buildPreview(ctx, repos, tenantID, order)
		if err != nil {
			return err
		}
		if len(p.items) == 0 {
			return &domain.NoBillableItemsError{Alerts: p.alertMessages()}
		}

		if err := lockAndRevalidate(ctx, repos, tenantID, p); err != nil {
			return err
		}

		now := uc.now()
		seq, err := repos.Sequences.Next(ctx, tenantID, now.Year())
		if err != nil {
			return err
		}
		billing = &entity.Billing{
			ID:           uuid.New().String(),
			TenantID:     tenantID,
			OrderID:      order.ID,
			Number:       entity.FormatBillingNumber(seq, now.Year(), uc.numberWidth),
			Year:         now.Year(),
			Sequence:     seq,
			Status:       entity.BillingStatusGenerated,
			Observations: observations,
			CreatedBy:    userID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		items = buildItems(billing, p, now)
		billing.RecalculateTotal(items)

		if err := repos.Billings.Create(ctx, billing); err != nil {
			return err
		}
		for _, it := range items {
			if err := repos.Billings.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.metrics.BillingRejected(rejectReason(err))
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("tenant_id", tenantID).Str("order_id", orderID).Msg("error generando faturamento")
		}
		return nil, err
	}

	uc.metrics.BillingGenerated(len(items), len(preview.Alerts), uc.now().Sub(start))
	for _, a := range preview.Alerts {
		uc.metrics.ItemsExcluded(a.Code, 1)
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("order_id", orderID).
		Str("billing_number", billing.Number).
		Int("items", len(items)).
		Int("excluded", len(preview.Alerts)).
		Str("total", billing.TotalValue.StringFixed(2)).
		Msg("faturamento generado")

	return &dto.GenerateBillingResponse{
		Billing: toBillingResponse(billing, items),
		Preview: *preview,
	}, nil
}

// GetBilling devuelve el faturamento con sus ítems.
func (uc *GenerateBillingUseCase) GetBilling(ctx context.Context, tenantID, billingID string) (*dto.BillingResponse, error) {
	if tenantID == "" || billingID == "" {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.repos.Billings.GetByID(ctx, tenantID, billingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repos.Billings.ListItems(ctx, tenantID, billingID)
	if err != nil {
		return nil, err
	}
	out := toBillingResponse(b, items)
	return &out, nil
}

// lockAndRevalidate bloquea los saldos tocados por el plan (en orden de clave) y verifica
// que lo asignado a cada uno no supere su disponible ya bloqueado.
func lockAndRevalidate(ctx context.Context, repos Repositories, tenantID string, p *plan) error {
	req := p.requirements()
	keys := make([]balanceKey, 0, len(req))
	for k := range req {
		keys = append(keys, k)
	}
	sortKeys(keys)

	var shortfalls []domain.BalanceShortfall
	for _, k := range keys {
		bal, err := repos.Balances.GetForUpdate(ctx, tenantID, k.contractID, k.productID, k.modalityID)
		if err != nil {
			return err
		}
		available := int64(0)
		if bal != nil && bal.Active {
			available = bal.Available()
		}
		if req[k] > available {
			shortfalls = append(shortfalls, domain.BalanceShortfall{
				ContractID: k.contractID,
				ProductID:  k.productID,
				ModalityID: k.modalityID,
				Required:   req[k],
				Available:  available,
			})
		}
	}
	if len(shortfalls) > 0 {
		return &domain.InsufficientBalanceError{Details: shortfalls}
	}
	return nil
}

func buildItems(b *entity.Billing, p *plan, now time.Time) []*entity.BillingItem {
	var items []*entity.BillingItem
	for _, it := range p.items {
		for _, s := range it.slices {
			if s.quantity <= 0 {
				continue
			}
			bi := &entity.BillingItem{
				ID:               uuid.New().String(),
				TenantID:         b.TenantID,
				BillingID:        b.ID,
				OrderItemID:      it.item.ID,
				ModalityID:       s.balance.ModalityID,
				ContractID:       it.item.ContractID,
				ProductID:        it.item.ProductID,
				QuantityOriginal: it.quantity,
				UnitPrice:        it.item.UnitPrice,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			bi.SetQuantity(s.quantity)
			bi.PercentualModality = s.percentual.Round(4)
			items = append(items, bi)
		}
	}
	return items
}

func toBillingResponse(b *entity.Billing, items []*entity.BillingItem) dto.BillingResponse {
	out := dto.BillingResponse{
		ID:           b.ID,
		TenantID:     b.TenantID,
		OrderID:      b.OrderID,
		Number:       b.Number,
		Status:       b.Status,
		TotalValue:   b.TotalValue,
		Observations: b.Observations,
		CreatedBy:    b.CreatedBy,
		CreatedAt:    b.CreatedAt,
		Items:        make([]dto.BillingItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.BillingItemResponse{
			ID:                      it.ID,
			OrderItemID:             it.OrderItemID,
			ModalityID:              it.ModalityID,
			ContractID:              it.ContractID,
			ProductID:               it.ProductID,
			QuantityOriginal:        it.QuantityOriginal,
			QuantityModality:        it.QuantityModality,
			PercentualModality:      it.PercentualModality,
			UnitPrice:               it.UnitPrice,
			Value:                   it.Value,
			ConsumptionRegistered:   it.ConsumptionRegistered,
			ConsumptionRegisteredAt: it.ConsumptionRegisteredAt,
		})
	}
	return out
}

// isBusinessError indica errores esperados del dominio (no se registran como error).
func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrDuplicateBilling,
		domain.ErrInsufficientBalance, domain.ErrInvalidOrderState, domain.ErrAlreadyConsumed,
		domain.ErrNotRegistered, domain.ErrModalityNotFound, domain.ErrNoRedistributionTarget,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func rejectReason(err error) string {
	var noItems *domain.NoBillableItemsError
	switch {
	case errors.As(err, &noItems):
		return "no_billable_items"
	case errors.Is(err, domain.ErrDuplicateBilling):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidOrderState):
		return "invalid_order_state"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}
