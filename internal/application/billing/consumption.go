package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// Operaciones del libro de consumo (etiqueta de métricas).
const (
	OpRegister = "register"
	OpReverse  = "reverse"
)

// ConsumptionUseCase registra y revierte el consumo de saldo de los ítems de un faturamento.
// Orden de bloqueo en cada transacción: faturamento, ítems, saldos (por clave).
type ConsumptionUseCase struct {
	txRunner TxRunner
	repos    Repositories
	log      *logger.Logger
	metrics  Metrics
	now      func() time.Time
}

// NewConsumptionUseCase construye el caso de uso.
func NewConsumptionUseCase(txRunner TxRunner, repos Repositories, log *logger.Logger, metrics Metrics) *ConsumptionUseCase {
	return &ConsumptionUseCase{
		txRunner: txRunner,
		repos:    repos,
		log:      log.Component("consumption"),
		metrics:  metricsOrNop(metrics),
		now:      time.Now,
	}
}

// RegisterItem debita del saldo la cantidad de un ítem.
func (uc *ConsumptionUseCase) RegisterItem(ctx context.Context, tenantID, userID, billingID, itemID string) (*dto.BillingResponse, error) {
	return uc.changeItem(ctx, OpRegister, tenantID, userID, billingID, itemID)
}

// ReverseItem devuelve al saldo la cantidad de un ítem con consumo registrado.
func (uc *ConsumptionUseCase) ReverseItem(ctx context.Context, tenantID, userID, billingID, itemID string) (*dto.BillingResponse, error) {
	return uc.changeItem(ctx, OpReverse, tenantID, userID, billingID, itemID)
}

func (uc *ConsumptionUseCase) changeItem(ctx context.Context, op, tenantID, userID, billingID, itemID string) (*dto.BillingResponse, error) {
	if tenantID == "" || billingID == "" || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out dto.BillingResponse
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		b, err := lockBilling(ctx, repos, tenantID, billingID)
		if err != nil {
			return err
		}
		item, err := repos.Billings.GetItemForUpdate(ctx, tenantID, billingID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		now := uc.now()
		if op == OpRegister {
			if item.ConsumptionRegistered {
				return domain.ErrAlreadyConsumed
			}
			err = uc.register(ctx, repos, userID, item, now)
		} else {
			if !item.ConsumptionRegistered {
				return domain.ErrNotRegistered
			}
			err = uc.reverse(ctx, repos, item, now)
		}
		if err != nil {
			return err
		}

		out, err = syncBilling(ctx, repos, b, now)
		return err
	})
	if err != nil {
		uc.logFailure(err, op, tenantID, billingID)
		return nil, err
	}
	uc.metrics.ConsumptionChanged(op, 1)
	uc.log.Info().Str("op", op).Str("tenant_id", tenantID).Str("billing_id", billingID).Str("item_id", itemID).Str("status", out.Status).Msg("consumo actualizado")
	return &out, nil
}

// RegisterAll registra el consumo de todos los ítems pendientes del faturamento.
func (uc *ConsumptionUseCase) RegisterAll(ctx context.Context, tenantID, userID, billingID string) (*dto.BillingResponse, error) {
	return uc.changeAll(ctx, OpRegister, tenantID, userID, billingID)
}

// ReverseAll revierte el consumo de todos los ítems registrados del faturamento.
func (uc *ConsumptionUseCase) ReverseAll(ctx context.Context, tenantID, userID, billingID string) (*dto.BillingResponse, error) {
	return uc.changeAll(ctx, OpReverse, tenantID, userID, billingID)
}

func (uc *ConsumptionUseCase) changeAll(ctx context.Context, op, tenantID, userID, billingID string) (*dto.BillingResponse, error) {
	if tenantID == "" || billingID == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		out     dto.BillingResponse
		changed int
	)
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		b, err := lockBilling(ctx, repos, tenantID, billingID)
		if err != nil {
			return err
		}
		if op == OpRegister && b.Status == entity.BillingStatusConsumed {
			return domain.ErrAlreadyConsumed
		}
		items, err := repos.Billings.ListItemsForUpdate(ctx, tenantID, billingID)
		if err != nil {
			return err
		}

		wantRegistered := op == OpReverse
		var pending []*entity.BillingItem
		for _, it := range items {
			if it.ConsumptionRegistered == wantRegistered {
				pending = append(pending, it)
			}
		}
		if len(pending) == 0 {
			if op == OpReverse {
				return domain.ErrNotRegistered
			}
			return domain.ErrAlreadyConsumed
		}
		sortItemsByBalance(pending)

		now := uc.now()
		for _, it := range pending {
			if op == OpRegister {
				err = uc.register(ctx, repos, userID, it, now)
			} else {
				err = uc.reverse(ctx, repos, it, now)
			}
			if err != nil {
				return err
			}
		}
		changed = len(pending)

		out, err = syncBilling(ctx, repos, b, now)
		return err
	})
	if err != nil {
		uc.logFailure(err, op, tenantID, billingID)
		return nil, err
	}
	uc.metrics.ConsumptionChanged(op, changed)
	uc.log.Info().Str("op", op).Str("tenant_id", tenantID).Str("billing_id", billingID).Int("items", changed).Str("status", out.Status).Msg("consumo del faturamento actualizado")
	return &out, nil
}

// ListMovements devuelve el historial de consumo de un saldo, más reciente primero.
func (uc *ConsumptionUseCase) ListMovements(ctx context.Context, tenantID, balanceID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if tenantID == "" || balanceID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.Clamp()
	movements, err := uc.repos.Movements.ListByBalance(ctx, tenantID, balanceID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movements)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range movements {
		out.Items = append(out.Items, dto.MovementResponse{
			ID:            m.ID,
			BalanceID:     m.BalanceID,
			BillingItemID: m.BillingItemID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			Note:          m.Note,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

// register debita el saldo del ítem, deja el movimiento CONSUMO y marca el ítem.
func (uc *ConsumptionUseCase) register(ctx context.Context, repos Repositories, userID string, item *entity.BillingItem, now time.Time) error {
	bal, err := lockItemBalance(ctx, repos, item)
	if err != nil {
		return err
	}
	if err := consumeBalance(ctx, repos, bal, item, userID, item.QuantityModality, now); err != nil {
		return err
	}
	item.ConsumptionRegistered = true
	item.ConsumptionRegisteredAt = &now
	item.UpdatedAt = now
	return repos.Billings.UpdateItem(ctx, item)
}

// reverse devuelve la cantidad al saldo y elimina los movimientos CONSUMO del ítem.
func (uc *ConsumptionUseCase) reverse(ctx context.Context, repos Repositories, item *entity.BillingItem, now time.Time) error {
	bal, err := lockItemBalance(ctx, repos, item)
	if err != nil {
		return err
	}
	if err := bal.Restore(item.QuantityModality, now); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	if err := repos.Balances.UpdateConsumed(ctx, bal); err != nil {
		return err
	}

	deleted, err := repos.Movements.DeleteConsumeByBillingItem(ctx, item.TenantID, item.ID)
	if err != nil {
		return err
	}
	var sum int64
	for _, m := range deleted {
		sum += m.Quantity
	}
	if sum != item.QuantityModality {
		uc.log.Warn().Str("item_id", item.ID).Str("balance_id", bal.ID).Int64("expected", item.QuantityModality).Int64("deleted", sum).Msg("movimientos de consumo no coinciden con el ítem")
	}

	item.ConsumptionRegistered = false
	item.ConsumptionRegisteredAt = nil
	item.UpdatedAt = now
	return repos.Billings.UpdateItem(ctx, item)
}

func (uc *ConsumptionUseCase) logFailure(err error, op, tenantID, billingID string) {
	if isBusinessError(err) {
		return
	}
	uc.log.Error().Err(err).Str("op", op).Str("tenant_id", tenantID).Str("billing_id", billingID).Msg("error actualizando consumo")
}

// lockBilling bloquea la cabecera; un faturamento borrado se trata como inexistente.
func lockBilling(ctx context.Context, repos Repositories, tenantID, billingID string) (*entity.Billing, error) {
	b, err := repos.Billings.GetForUpdate(ctx, tenantID, billingID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.Status == entity.BillingStatusDeleted {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func lockItemBalance(ctx context.Context, repos Repositories, item *entity.BillingItem) (*entity.ModalityBalance, error) {
	bal, err := repos.Balances.GetForUpdate(ctx, item.TenantID, item.ContractID, item.ProductID, item.ModalityID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return nil, fmt.Errorf("%w: contrato %s producto %s modalidad %s", domain.ErrModalityNotFound, item.ContractID, item.ProductID, item.ModalityID)
	}
	return bal, nil
}

// consumeBalance debita quantity de un saldo ya bloqueado y registra el movimiento CONSUMO ligado al ítem.
func consumeBalance(ctx context.Context, repos Repositories, bal *entity.ModalityBalance, item *entity.BillingItem, userID string, quantity int64, now time.Time) error {
	if bal.Available() < quantity {
		return &domain.InsufficientBalanceError{Details: []domain.BalanceShortfall{{
			ContractID: item.ContractID,
			ProductID:  item.ProductID,
			ModalityID: item.ModalityID,
			Required:   quantity,
			Available:  bal.Available(),
		}}}
	}
	if err := bal.Consume(quantity, now); err != nil {
		return err
	}
	if err := repos.Balances.UpdateConsumed(ctx, bal); err != nil {
		return err
	}
	return repos.Movements.Create(ctx, &entity.ConsumptionMovement{
		ID:            uuid.New().String(),
		TenantID:      item.TenantID,
		BalanceID:     bal.ID,
		BillingItemID: item.ID,
		Type:          entity.MovementTypeConsume,
		Quantity:      quantity,
		Note:          "consumo faturamento " + item.BillingID,
		CreatedBy:     userID,
		CreatedAt:     now,
	})
}

// syncBilling recalcula estado y total de la cabecera con los ítems actuales y la persiste.
func syncBilling(ctx context.Context, repos Repositories, b *entity.Billing, now time.Time) (dto.BillingResponse, error) {
	items, err := repos.Billings.ListItems(ctx, b.TenantID, b.ID)
	if err != nil {
		return dto.BillingResponse{}, err
	}
	b.SyncStatus(items)
	b.RecalculateTotal(items)
	b.UpdatedAt = now
	if err := repos.Billings.UpdateHeader(ctx, b); err != nil {
		return dto.BillingResponse{}, err
	}
	return toBillingResponse(b, items), nil
}

func itemKey(it *entity.BillingItem) balanceKey {
	return balanceKey{contractID: it.ContractID, productID: it.ProductID, modalityID: it.ModalityID}
}

func sortItemsByBalance(items []*entity.BillingItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := itemKey(items[i]), itemKey(items[j])
		if ki != kj {
			return ki.less(kj)
		}
		return items[i].ID < items[j].ID
	})
}
