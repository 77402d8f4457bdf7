package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/Merenda-api/internal/application/billing"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
)

// memStore es una BD en memoria: las transacciones se serializan con mu y un error restaura el snapshot.
type memStore struct {
	mu   sync.Mutex
	data *memData

	// failOn hace fallar la operación con ese nombre (prueba de rollback).
	failOn string
	// onBalanceLock simula otra transacción que modificó el saldo antes de obtener el lock.
	onBalanceLock func(b *entity.ModalityBalance)
}

type memData struct {
	modalities   map[string]*entity.Modality
	balances     map[string]*entity.ModalityBalance
	orders       map[string]*entity.Order
	orderItems   []*entity.OrderItem
	billings     map[string]*entity.Billing
	billingItems []*entity.BillingItem
	sequences    map[string]int64
	movements    []*entity.ConsumptionMovement
}

var errInjected = errors.New("fallo inyectado")

func newMemStore() *memStore {
	return &memStore{data: &memData{
		modalities: map[string]*entity.Modality{},
		balances:   map[string]*entity.ModalityBalance{},
		orders:     map[string]*entity.Order{},
		billings:   map[string]*entity.Billing{},
		sequences:  map[string]int64{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		modalities: make(map[string]*entity.Modality, len(d.modalities)),
		balances:   make(map[string]*entity.ModalityBalance, len(d.balances)),
		orders:     make(map[string]*entity.Order, len(d.orders)),
		billings:   make(map[string]*entity.Billing, len(d.billings)),
		sequences:  make(map[string]int64, len(d.sequences)),
	}
	for k, v := range d.modalities {
		m := *v
		c.modalities[k] = &m
	}
	for k, v := range d.balances {
		b := *v
		c.balances[k] = &b
	}
	for k, v := range d.orders {
		o := *v
		c.orders[k] = &o
	}
	for _, v := range d.orderItems {
		it := *v
		c.orderItems = append(c.orderItems, &it)
	}
	for k, v := range d.billings {
		b := *v
		c.billings[k] = &b
	}
	for _, v := range d.billingItems {
		it := *v
		c.billingItems = append(c.billingItems, &it)
	}
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	for _, v := range d.movements {
		m := *v
		c.movements = append(c.movements, &m)
	}
	return c
}

// Run implementa billing.TxRunner.
func (s *memStore) Run(ctx context.Context, fn func(repos billing.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(s.bind(true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// repos devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *memStore) repos() billing.Repositories {
	return s.bind(false)
}

func (s *memStore) bind(inTx bool) billing.Repositories {
	r := &memRepos{s: s, inTx: inTx}
	return billing.Repositories{
		Modalities: r,
		Balances:   memBalances{r},
		Orders:     memOrders{r},
		Billings:   memBillings{r},
		Sequences:  r,
		Movements:  memMovements{r},
	}
}

type memRepos struct {
	s    *memStore
	inTx bool
}

func (r *memRepos) do(op string, fn func(d *memData) error) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if r.s.failOn == op {
		return errInjected
	}
	return fn(r.s.data)
}

// --- modalities ---

func (r *memRepos) ListActive(ctx context.Context, tenantID string) ([]*entity.Modality, error) {
	var out []*entity.Modality
	err := r.do("ListActive", func(d *memData) error {
		for _, m := range d.modalities {
			if m.TenantID == tenantID && m.Active {
				c := *m
				out = append(out, &c)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r *memRepos) GetByIDs(ctx context.Context, tenantID string, ids []string) ([]*entity.Modality, error) {
	var out []*entity.Modality
	err := r.do("GetByIDs", func(d *memData) error {
		for _, id := range ids {
			if m, ok := d.modalities[id]; ok && m.TenantID == tenantID {
				c := *m
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

// --- sequences ---

func (r *memRepos) Next(ctx context.Context, tenantID string, year int) (int64, error) {
	var n int64
	err := r.do("Next", func(d *memData) error {
		key := fmt.Sprintf("%s/%d", tenantID, year)
		d.sequences[key]++
		n = d.sequences[key]
		return nil
	})
	return n, err
}

// --- balances ---

type memBalances struct{ *memRepos }

func (r memBalances) ListByContractProduct(ctx context.Context, tenantID, contractID, productID string) ([]*entity.ModalityBalance, error) {
	var out []*entity.ModalityBalance
	err := r.do("ListByContractProduct", func(d *memData) error {
		for _, b := range d.balances {
			m := d.modalities[b.ModalityID]
			if b.TenantID != tenantID || b.ContractID != contractID || b.ProductID != productID || !b.Active || m == nil || !m.Active {
				continue
			}
			c := *b
			c.ModalityName, c.ModalityCode = m.Name, m.Code
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ModalityName < out[j].ModalityName })
		return nil
	})
	return out, err
}

func (r memBalances) GetForUpdate(ctx context.Context, tenantID, contractID, productID, modalityID string) (*entity.ModalityBalance, error) {
	var out *entity.ModalityBalance
	err := r.do("BalanceGetForUpdate", func(d *memData) error {
		for _, b := range d.balances {
			if b.TenantID == tenantID && b.ContractID == contractID && b.ProductID == productID && b.ModalityID == modalityID {
				if r.s.onBalanceLock != nil {
					r.s.onBalanceLock(b)
				}
				c := *b
				out = &c
			}
		}
		return nil
	})
	return out, err
}

func (r memBalances) UpdateConsumed(ctx context.Context, balance *entity.ModalityBalance) error {
	return r.do("UpdateConsumed", func(d *memData) error {
		b, ok := d.balances[balance.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if balance.ConsumedQuantity < 0 || balance.ConsumedQuantity > b.InitialQuantity {
			return errors.New("check constraint: consumed fuera de rango")
		}
		b.ConsumedQuantity = balance.ConsumedQuantity
		b.UpdatedAt = balance.UpdatedAt
		return nil
	})
}

// --- orders ---

type memOrders struct{ *memRepos }

func (r memOrders) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.do("OrderGetByID", func(d *memData) error {
		if o, ok := d.orders[id]; ok && o.TenantID == tenantID {
			c := *o
			out = &c
		}
		return nil
	})
	return out, err
}

func (r memOrders) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r memOrders) ListItems(ctx context.Context, tenantID, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.do("ListOrderItems", func(d *memData) error {
		o, ok := d.orders[orderID]
		if !ok || o.TenantID != tenantID {
			return nil
		}
		for _, it := range d.orderItems {
			if it.OrderID == orderID {
				c := *it
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

// --- billings ---

type memBillings struct{ *memRepos }

func (r memBillings) Create(ctx context.Context, b *entity.Billing) error {
	return r.do("CreateBilling", func(d *memData) error {
		for _, existing := range d.billings {
			if existing.TenantID == b.TenantID && existing.OrderID == b.OrderID && existing.Status != entity.BillingStatusDeleted {
				return domain.ErrDuplicateBilling
			}
		}
		c := *b
		d.billings[b.ID] = &c
		return nil
	})
}

func (r memBillings) CreateItem(ctx context.Context, item *entity.BillingItem) error {
	return r.do("CreateItem", func(d *memData) error {
		if _, ok := d.billings[item.BillingID]; !ok {
			return errors.New("fk: billing inexistente")
		}
		c := *item
		d.billingItems = append(d.billingItems, &c)
		return nil
	})
}

func (r memBillings) get(op, tenantID, id string) (*entity.Billing, error) {
	var out *entity.Billing
	err := r.do(op, func(d *memData) error {
		if b, ok := d.billings[id]; ok && b.TenantID == tenantID {
			c := *b
			out = &c
		}
		return nil
	})
	return out, err
}

func (r memBillings) GetByID(ctx context.Context, tenantID, id string) (*entity.Billing, error) {
	return r.get("BillingGetByID", tenantID, id)
}

func (r memBillings) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Billing, error) {
	return r.get("BillingGetForUpdate", tenantID, id)
}

func (r memBillings) GetActiveByOrder(ctx context.Context, tenantID, orderID string) (*entity.Billing, error) {
	var out *entity.Billing
	err := r.do("GetActiveByOrder", func(d *memData) error {
		for _, b := range d.billings {
			if b.TenantID == tenantID && b.OrderID == orderID && b.Status != entity.BillingStatusDeleted {
				c := *b
				out = &c
			}
		}
		return nil
	})
	return out, err
}

func (r memBillings) GetActiveByOrderForUpdate(ctx context.Context, tenantID, orderID string) (*entity.Billing, error) {
	return r.GetActiveByOrder(ctx, tenantID, orderID)
}

func (r memBillings) UpdateHeader(ctx context.Context, b *entity.Billing) error {
	return r.do("UpdateHeader", func(d *memData) error {
		existing, ok := d.billings[b.ID]
		if !ok {
			return domain.ErrNotFound
		}
		existing.Status = b.Status
		existing.TotalValue = b.TotalValue
		existing.UpdatedAt = b.UpdatedAt
		return nil
	})
}

func (r memBillings) ListItems(ctx context.Context, tenantID, billingID string) ([]*entity.BillingItem, error) {
	var out []*entity.BillingItem
	err := r.do("ListItems", func(d *memData) error {
		for _, it := range d.billingItems {
			if it.TenantID == tenantID && it.BillingID == billingID {
				c := *it
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r memBillings) ListItemsForUpdate(ctx context.Context, tenantID, billingID string) ([]*entity.BillingItem, error) {
	return r.ListItems(ctx, tenantID, billingID)
}

func (r memBillings) GetItemForUpdate(ctx context.Context, tenantID, billingID, itemID string) (*entity.BillingItem, error) {
	var out *entity.BillingItem
	err := r.do("GetItemForUpdate", func(d *memData) error {
		for _, it := range d.billingItems {
			if it.ID == itemID && it.TenantID == tenantID && it.BillingID == billingID {
				c := *it
				out = &c
			}
		}
		return nil
	})
	return out, err
}

func (r memBillings) UpdateItem(ctx context.Context, item *entity.BillingItem) error {
	return r.do("UpdateItem", func(d *memData) error {
		for i, it := range d.billingItems {
			if it.ID == item.ID {
				c := *item
				d.billingItems[i] = &c
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r memBillings) DeleteItems(ctx context.Context, tenantID string, ids []string) error {
	return r.do("DeleteItems", func(d *memData) error {
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		kept := d.billingItems[:0]
		for _, it := range d.billingItems {
			if it.TenantID == tenantID && drop[it.ID] {
				continue
			}
			kept = append(kept, it)
		}
		d.billingItems = kept
		// ON DELETE SET NULL
		for _, m := range d.movements {
			if drop[m.BillingItemID] {
				m.BillingItemID = ""
			}
		}
		return nil
	})
}

// --- movements ---

type memMovements struct{ *memRepos }

func (r memMovements) Create(ctx context.Context, m *entity.ConsumptionMovement) error {
	return r.do("CreateMovement", func(d *memData) error {
		c := *m
		d.movements = append(d.movements, &c)
		return nil
	})
}

func (r memMovements) DeleteConsumeByBillingItem(ctx context.Context, tenantID, billingItemID string) ([]*entity.ConsumptionMovement, error) {
	var deleted []*entity.ConsumptionMovement
	err := r.do("DeleteConsumeByBillingItem", func(d *memData) error {
		kept := d.movements[:0]
		for _, m := range d.movements {
			if m.TenantID == tenantID && m.BillingItemID == billingItemID && m.Type == entity.MovementTypeConsume {
				deleted = append(deleted, m)
				continue
			}
			kept = append(kept, m)
		}
		d.movements = kept
		return nil
	})
	return deleted, err
}

func (r memMovements) ListByBalance(ctx context.Context, tenantID, balanceID string, limit, offset int) ([]*entity.ConsumptionMovement, error) {
	var out []*entity.ConsumptionMovement
	err := r.do("ListByBalance", func(d *memData) error {
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.TenantID == tenantID && m.BalanceID == balanceID {
				c := *m
				out = append(out, &c)
			}
		}
		if offset >= len(out) {
			out = nil
			return nil
		}
		out = out[offset:]
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

// --- helpers de inspección ---

func (s *memStore) balance(id string) entity.ModalityBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.data.balances[id]
}

func (s *memStore) movementsOf(balanceID string) []entity.ConsumptionMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.ConsumptionMovement
	for _, m := range s.data.movements {
		if m.BalanceID == balanceID {
			out = append(out, *m)
		}
	}
	return out
}

func (s *memStore) billingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.billings)
}
