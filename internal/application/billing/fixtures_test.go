package billing_test

import (
	"time"

	"github.com/jhoicas/Merenda-api/internal/application/billing"
	"github.com/jhoicas/Merenda-api/internal/domain/entity"
	"github.com/jhoicas/Merenda-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	tenant   = "tenant-1"
	user     = "user-1"
	contract = "contract-1"
	orderID  = "order-1"

	modPNAE = "mod-pnae"
	modPNAC = "mod-pnac"
	modEJA  = "mod-eja"

	productArroz  = "prod-arroz"
	productFeijao = "prod-feijao"
)

func (s *memStore) addModality(id, name string, repasse int64) {
	s.data.modalities[id] = &entity.Modality{
		ID: id, TenantID: tenant, Name: name, Code: name, Repasse: decimal.NewFromInt(repasse), Active: true,
	}
}

func (s *memStore) addBalance(id, contractID, productID, modalityID string, initial, consumed int64) {
	s.data.balances[id] = &entity.ModalityBalance{
		ID: id, TenantID: tenant, ContractID: contractID, ProductID: productID, ModalityID: modalityID,
		InitialQuantity: initial, ConsumedQuantity: consumed, Active: true,
	}
}

func (s *memStore) addOrder(id, status string) {
	s.data.orders[id] = &entity.Order{ID: id, TenantID: tenant, Number: "PED-" + id, Status: status}
}

func (s *memStore) addOrderItem(id, order, contractID, productID string, qty, price string) {
	s.data.orderItems = append(s.data.orderItems, &entity.OrderItem{
		ID: id, OrderID: order, ContractID: contractID, ContractNumber: "CT-" + contractID,
		ProductID: productID, ProductName: productID,
		Quantity: decimal.RequireFromString(qty), UnitPrice: decimal.RequireFromString(price),
	})
}

// newScenarioStore: PNAE (repasse 60) y PNAC (repasse 40) con saldo amplio para arroz
// y saldo corto (10 + 10) para feijão.
func newScenarioStore() *memStore {
	s := newMemStore()
	s.addModality(modPNAE, "PNAE", 60)
	s.addModality(modPNAC, "PNAC", 40)
	s.addBalance("bal-arroz-pnae", contract, productArroz, modPNAE, 100, 0)
	s.addBalance("bal-arroz-pnac", contract, productArroz, modPNAC, 100, 0)
	s.addBalance("bal-feijao-pnae", contract, productFeijao, modPNAE, 10, 0)
	s.addBalance("bal-feijao-pnac", contract, productFeijao, modPNAC, 10, 0)
	s.addOrder(orderID, entity.OrderStatusApproved)
	return s
}

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newGenerate(s *memStore) *billing.GenerateBillingUseCase {
	uc := billing.NewGenerateBillingUseCase(s, s.repos(), logger.Nop(), nil, 6)
	billing.SetClock(uc, func() time.Time { return fixedNow })
	return uc
}

func newConsumption(s *memStore) *billing.ConsumptionUseCase {
	return billing.NewConsumptionUseCase(s, s.repos(), logger.Nop(), nil)
}

func newRemoval(s *memStore) *billing.RemoveModalityUseCase {
	return billing.NewRemoveModalityUseCase(s, logger.Nop(), nil)
}
