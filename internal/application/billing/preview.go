package billing

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/allocation"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AlertNoQuantity marca ítems cuya cantidad redondeada es cero o negativa.
const AlertNoQuantity = "SEM_QUANTIDADE"

// plannedSlice es la porción de un ítem que se persistirá como BillingItem.
type plannedSlice struct {
	balance    *entity.ModalityBalance
	percentual decimal.Decimal
	quantity   int64
	available  int64 // disponible considerado al repartir
}

// plannedItem es un ítem del pedido que sobrevivió a la verificación de saldo.
type plannedItem struct {
	item     *entity.OrderItem
	quantity int64
	slices   []plannedSlice
}

// plan es el resultado interno del preview, usado por la generación dentro de la transacción.
type plan struct {
	items  []plannedItem
	alerts []dto.PreviewAlert
}

// balanceKey identifica un saldo por contrato, producto y modalidad.
// Todos los caminos bloquean saldos en el orden de esta clave para evitar deadlocks.
type balanceKey struct {
	contractID string
	productID  string
	modalityID string
}

func (k balanceKey) less(o balanceKey) bool {
	if k.contractID != o.contractID {
		return k.contractID < o.contractID
	}
	if k.productID != o.productID {
		return k.productID < o.productID
	}
	return k.modalityID < o.modalityID
}

func sortKeys(keys []balanceKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}

// requirements suma lo asignado por saldo en todo el pedido.
func (p *plan) requirements() map[balanceKey]int64 {
	req := make(map[balanceKey]int64)
	for _, it := range p.items {
		for _, s := range it.slices {
			if s.quantity <= 0 {
				continue
			}
			k := balanceKey{contractID: it.item.ContractID, productID: it.item.ProductID, modalityID: s.balance.ModalityID}
			req[k] += s.quantity
		}
	}
	return req
}

// alertMessages devuelve el texto de las alertas (para NoBillableItemsError y logs).
func (p *plan) alertMessages() []string {
	out := make([]string, 0, len(p.alerts))
	for _, a := range p.alerts {
		name := a.ProductName
		if name == "" {
			name = a.ProductID
		}
		out = append(out, fmt.Sprintf("%s: %s", name, a.Message))
	}
	return out
}

// buildPreview calcula el reparto de todos los ítems del pedido contra los saldos actuales.
// Los saldos ya tomados por ítems anteriores del mismo pedido se descuentan antes de repartir el siguiente.
func buildPreview(ctx context.Context, repos Repositories, tenantID string, order *entity.Order) (*dto.BillingPreview, *plan, error) {
	modalities, err := repos.Modalities.ListActive(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if len(modalities) == 0 {
		return nil, nil, &domain.ConfigurationError{Reason: "no hay modalidades activas"}
	}
	byID := make(map[string]*entity.Modality, len(modalities))
	for _, m := range modalities {
		byID[m.ID] = m
	}

	items, err := repos.Orders.ListItems(ctx, tenantID, order.ID)
	if err != nil {
		return nil, nil, err
	}

	p := &plan{}
	reserved := make(map[string]int64)
	for _, item := range items {
		q := allocation.RoundQuantity(item.Quantity)
		if q <= 0 {
			p.alerts = append(p.alerts, newAlert(item, AlertNoQuantity, "cantidad del ítem es cero", q, 0))
			continue
		}

		balances, err := repos.Balances.ListByContractProduct(ctx, tenantID, item.ContractID, item.ProductID)
		if err != nil {
			return nil, nil, err
		}
		candidates := make([]allocation.Candidate, 0, len(balances))
		balanceByModality := make(map[string]*entity.ModalityBalance, len(balances))
		for _, b := range balances {
			m, ok := byID[b.ModalityID]
			if !ok || !b.Active {
				continue
			}
			balanceByModality[b.ModalityID] = b
			candidates = append(candidates, allocation.Candidate{
				ModalityID: b.ModalityID,
				Repasse:    m.Repasse,
				Initial:    b.InitialQuantity,
				Available:  b.Available() - reserved[b.ID],
			})
		}

		res, err := allocation.AllocateWithBalance(q, candidates)
		if err != nil {
			return nil, nil, err
		}
		if res.Excluded != nil {
			p.alerts = append(p.alerts, newAlert(item, res.Excluded.Reason, res.Excluded.Message(), res.Excluded.Required, res.Excluded.Available))
			continue
		}

		planned := plannedItem{item: item, quantity: q}
		for _, s := range res.Slices {
			b := balanceByModality[s.ModalityID]
			reserved[b.ID] += s.Quantity
			planned.slices = append(planned.slices, plannedSlice{
				balance:    b,
				percentual: s.Percentual,
				quantity:   s.Quantity,
				available:  s.Available,
			})
		}
		p.items = append(p.items, planned)
	}

	return toPreviewDTO(order, p, byID, len(items)), p, nil
}

func newAlert(item *entity.OrderItem, code, message string, required, available int64) dto.PreviewAlert {
	shortfall := required - available
	if shortfall < 0 || code == AlertNoQuantity {
		shortfall = 0
	}
	return dto.PreviewAlert{
		OrderItemID: item.ID,
		ContractID:  item.ContractID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Code:        code,
		Message:     message,
		Required:    required,
		Available:   available,
		Shortfall:   shortfall,
	}
}

// toPreviewDTO agrupa los ítems planificados por contrato (en el orden en que aparecen en el pedido).
func toPreviewDTO(order *entity.Order, p *plan, modalities map[string]*entity.Modality, totalItems int) *dto.BillingPreview {
	out := &dto.BillingPreview{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Contracts:   []dto.ContractPreview{},
		Alerts:      p.alerts,
	}
	if out.Alerts == nil {
		out.Alerts = []dto.PreviewAlert{}
	}

	contractIdx := make(map[string]int)
	summary := dto.PreviewSummary{TotalItems: totalItems, ExcludedItems: len(p.alerts), TotalValue: decimal.Zero}
	for _, it := range p.items {
		idx, ok := contractIdx[it.item.ContractID]
		if !ok {
			idx = len(out.Contracts)
			contractIdx[it.item.ContractID] = idx
			out.Contracts = append(out.Contracts, dto.ContractPreview{
				ContractID:     it.item.ContractID,
				ContractNumber: it.item.ContractNumber,
				TotalValue:     decimal.Zero,
			})
		}

		ip := dto.ItemPreview{
			OrderItemID: it.item.ID,
			ProductID:   it.item.ProductID,
			ProductName: it.item.ProductName,
			Quantity:    it.quantity,
			UnitPrice:   it.item.UnitPrice,
			TotalValue:  decimal.Zero,
		}
		for _, s := range it.slices {
			m := modalities[s.balance.ModalityID]
			value := entity.ItemValue(s.quantity, it.item.UnitPrice)
			ip.Modalities = append(ip.Modalities, dto.ModalityPreview{
				ModalityID:   m.ID,
				ModalityName: m.Name,
				ModalityCode: m.Code,
				BalanceID:    s.balance.ID,
				Percentual:   s.percentual.Round(4),
				Quantity:     s.quantity,
				Available:    s.available,
				Value:        value,
			})
			ip.TotalValue = ip.TotalValue.Add(value)
		}

		c := &out.Contracts[idx]
		c.Items = append(c.Items, ip)
		c.TotalValue = c.TotalValue.Add(ip.TotalValue)

		summary.BillableItems++
		summary.TotalQuantity += it.quantity
		summary.TotalValue = summary.TotalValue.Add(ip.TotalValue)
	}
	summary.TotalContracts = len(out.Contracts)
	out.Resumo = summary
	return out
}
