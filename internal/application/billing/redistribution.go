package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/allocation"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// RemoveModalityUseCase quita una modalidad de un faturamento y reparte su cantidad entre las demás.
type RemoveModalityUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	metrics  Metrics
	now      func() time.Time
}

// NewRemoveModalityUseCase construye el caso de uso.
func NewRemoveModalityUseCase(txRunner TxRunner, log *logger.Logger, metrics Metrics) *RemoveModalityUseCase {
	return &RemoveModalityUseCase{
		txRunner: txRunner,
		log:      log.Component("redistribution"),
		metrics:  metricsOrNop(metrics),
		now:      time.Now,
	}
}

// balanceOp es un ajuste de saldo pendiente; se aplican todos ordenados por clave.
type balanceOp struct {
	key      balanceKey
	item     *entity.BillingItem
	quantity int64
	restore  bool
}

// RemoveModalityItems elimina los ítems del faturamento de (contrato, modalidad) y reparte
// su cantidad entre los ítems del mismo contrato y producto con otra modalidad, proporcional al repasse.
// Si el consumo ya estaba registrado, el saldo de la modalidad quitada se estorna y el de
// las modalidades que reciben la cantidad se debita.
func (uc *RemoveModalityUseCase) RemoveModalityItems(ctx context.Context, tenantID, userID, billingID, contractID, modalityID string) (*dto.RemoveModalityResponse, error) {
	if tenantID == "" || billingID == "" || contractID == "" || modalityID == "" {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.RemoveModalityResponse{}
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		b, err := lockBilling(ctx, repos, tenantID, billingID)
		if err != nil {
			return err
		}
		items, err := repos.Billings.ListItemsForUpdate(ctx, tenantID, billingID)
		if err != nil {
			return err
		}

		var removed, kept []*entity.BillingItem
		for _, it := range items {
			if it.ContractID == contractID && it.ModalityID == modalityID {
				removed = append(removed, it)
			} else {
				kept = append(kept, it)
			}
		}
		if len(removed) == 0 {
			return domain.ErrModalityNotFound
		}

		modalityIDs := make(map[string]struct{})
		for _, it := range kept {
			modalityIDs[it.ModalityID] = struct{}{}
		}
		repasse, err := loadRepasse(ctx, repos, tenantID, modalityIDs)
		if err != nil {
			return err
		}

		var ops []balanceOp
		changed := make(map[string]*entity.BillingItem)
		for _, group := range groupByProduct(removed) {
			productID := group[0].ProductID
			var targets []*entity.BillingItem
			for _, it := range kept {
				if it.ContractID == contractID && it.ProductID == productID {
					targets = append(targets, it)
				}
			}
			if len(targets) == 0 {
				return fmt.Errorf("%w: producto %s del contrato %s", domain.ErrNoRedistributionTarget, productID, contractID)
			}

			var qty int64
			for _, it := range group {
				qty += it.QuantityModality
				if it.ConsumptionRegistered {
					ops = append(ops, balanceOp{key: itemKey(it), item: it, quantity: it.QuantityModality, restore: true})
				}
			}

			adds, err := redistribute(qty, targets, repasse)
			if err != nil {
				return err
			}
			// Todos los hermanos pasan al percentual efectivo, reciban o no cantidad.
			for _, t := range targets {
				add := adds[t.ID]
				t.SetQuantity(t.QuantityModality + add)
				changed[t.ID] = t
				if add > 0 && t.ConsumptionRegistered {
					ops = append(ops, balanceOp{key: itemKey(t), item: t, quantity: add})
				}
			}
			out.RemovedQuantity += qty
		}

		now := uc.now()
		if err := uc.applyBalanceOps(ctx, repos, userID, ops, now); err != nil {
			return err
		}

		for _, t := range kept {
			if _, ok := changed[t.ID]; !ok {
				continue
			}
			t.UpdatedAt = now
			if err := repos.Billings.UpdateItem(ctx, t); err != nil {
				return err
			}
		}
		ids := make([]string, 0, len(removed))
		for _, it := range removed {
			ids = append(ids, it.ID)
		}
		if err := repos.Billings.DeleteItems(ctx, tenantID, ids); err != nil {
			return err
		}

		out.Billing, err = syncBilling(ctx, repos, b, now)
		if err != nil {
			return err
		}
		out.RemovedItems = len(removed)
		out.ConsumptionAdjusted = len(ops) > 0
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("tenant_id", tenantID).Str("billing_id", billingID).Str("modality_id", modalityID).Msg("error quitando modalidad")
		}
		return nil, err
	}

	uc.metrics.ModalityRemoved(out.RemovedItems, out.RemovedQuantity)
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("billing_id", billingID).
		Str("contract_id", contractID).
		Str("modality_id", modalityID).
		Int("removed_items", out.RemovedItems).
		Int64("removed_quantity", out.RemovedQuantity).
		Bool("consumption_adjusted", out.ConsumptionAdjusted).
		Msg("modalidad quitada del faturamento")
	return out, nil
}

// applyBalanceOps bloquea y ajusta los saldos en orden de clave; los estornos van antes que los consumos.
func (uc *RemoveModalityUseCase) applyBalanceOps(ctx context.Context, repos Repositories, userID string, ops []balanceOp, now time.Time) error {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].key != ops[j].key {
			return ops[i].key.less(ops[j].key)
		}
		return ops[i].restore && !ops[j].restore
	})
	for _, op := range ops {
		bal, err := lockItemBalance(ctx, repos, op.item)
		if err != nil {
			return err
		}
		if !op.restore {
			if err := consumeBalance(ctx, repos, bal, op.item, userID, op.quantity, now); err != nil {
				return err
			}
			continue
		}
		if err := bal.Restore(op.quantity, now); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		if err := repos.Balances.UpdateConsumed(ctx, bal); err != nil {
			return err
		}
		// El ítem se elimina: el estorno queda sin enlace.
		if err := repos.Movements.Create(ctx, &entity.ConsumptionMovement{
			ID:        uuid.New().String(),
			TenantID:  op.item.TenantID,
			BalanceID: bal.ID,
			Type:      entity.MovementTypeReverse,
			Quantity:  -op.quantity,
			Note:      "estorno por remoción de modalidad, faturamento " + op.item.BillingID,
			CreatedBy: userID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// redistribute reparte qty entre las modalidades de los ítems destino por repasse (mayor resto).
// La parte de cada modalidad va al primer ítem destino de esa modalidad.
func redistribute(qty int64, targets []*entity.BillingItem, repasse map[string]*entity.Modality) (map[string]int64, error) {
	receiver := make(map[string]string, len(targets))
	var weights []allocation.Weight
	for _, t := range targets {
		if _, ok := receiver[t.ModalityID]; ok {
			continue
		}
		m, ok := repasse[t.ModalityID]
		if !ok {
			return nil, &domain.ConfigurationError{Reason: "modalidad " + t.ModalityID + " no existe"}
		}
		receiver[t.ModalityID] = t.ID
		weights = append(weights, allocation.Weight{Key: t.ModalityID, Repasse: m.Repasse})
	}
	shares, err := allocation.CalculatePercentages(weights)
	if err != nil {
		return nil, err
	}
	allocs, err := allocation.AllocateQuantity(qty, shares)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(allocs))
	for _, a := range allocs {
		out[receiver[a.Key]] = a.Quantity
	}
	return out, nil
}

func loadRepasse(ctx context.Context, repos Repositories, tenantID string, ids map[string]struct{}) (map[string]*entity.Modality, error) {
	out := make(map[string]*entity.Modality, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Strings(list)
	modalities, err := repos.Modalities.GetByIDs(ctx, tenantID, list)
	if err != nil {
		return nil, err
	}
	for _, m := range modalities {
		out[m.ID] = m
	}
	return out, nil
}

// groupByProduct agrupa conservando el orden de aparición.
func groupByProduct(items []*entity.BillingItem) [][]*entity.BillingItem {
	idx := make(map[string]int)
	var groups [][]*entity.BillingItem
	for _, it := range items {
		i, ok := idx[it.ProductID]
		if !ok {
			i = len(groups)
			idx[it.ProductID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], it)
	}
	return groups
}
