package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modality representa un programa de financiamiento (modalidade) que reembolsa parte de los productos.
// Repasse es el peso usado para repartir cantidades entre modalidades.
type Modality struct {
	ID        string
	TenantID  string
	Name      string
	Code      string          // código financiero (opcional)
	Repasse   decimal.Decimal // valor de repasse, positivo
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
