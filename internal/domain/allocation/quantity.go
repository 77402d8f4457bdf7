package allocation

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/shopspring/decimal"
)

// percentTolerance absorbe el redondeo de Div al calcular percentuales (precisión de 16 dígitos).
var percentTolerance = decimal.New(1, -9)

// Allocation es la cantidad entera asignada a Key.
type Allocation struct {
	Key        string
	Percentual decimal.Decimal
	Quantity   int64
}

// RoundQuantity redondea una cantidad fraccionaria al entero más cercano (una sola vez, antes de repartir).
func RoundQuantity(q decimal.Decimal) int64 {
	return q.Round(0).IntPart()
}

// AllocateQuantity reparte total entre shares por el método del mayor resto:
// base_i = floor(total*p_i/100); el déficit se entrega de a 1 a los mayores restos.
// Los empates conservan el orden de entrada. La suma final siempre es igual a total.
func AllocateQuantity(total int64, shares []Share) ([]Allocation, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: cantidad negativa %d", domain.ErrInvalidInput, total)
	}
	if len(shares) == 0 {
		return nil, &domain.ConfigurationError{Reason: "no hay percentuales para repartir"}
	}
	sum := decimal.Zero
	for _, s := range shares {
		if s.Percentual.IsNegative() {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("percentual negativo en %s", s.Key)}
		}
		sum = sum.Add(s.Percentual)
	}
	if sum.Sub(hundred).Abs().GreaterThan(percentTolerance) {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("los percentuales suman %s, no 100", sum.String())}
	}

	q := decimal.NewFromInt(total)
	out := make([]Allocation, len(shares))
	restos := make([]decimal.Decimal, len(shares))
	var assigned int64
	for i, s := range shares {
		exact := q.Mul(s.Percentual).Div(hundred)
		base := exact.Floor()
		out[i] = Allocation{Key: s.Key, Percentual: s.Percentual, Quantity: base.IntPart()}
		restos[i] = exact.Sub(base)
		assigned += out[i].Quantity
	}

	deficit := total - assigned
	if deficit < 0 || deficit > int64(len(shares)) {
		return nil, &domain.InternalAllocationError{
			Op:     "mayor resto",
			Detail: fmt.Sprintf("déficit %d fuera de rango para %d modalidades", deficit, len(shares)),
		}
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return restos[order[a]].GreaterThan(restos[order[b]])
	})
	for k := int64(0); k < deficit; k++ {
		out[order[k]].Quantity++
	}

	var check int64
	for _, a := range out {
		check += a.Quantity
	}
	if check != total {
		return nil, &domain.InternalAllocationError{
			Op:     "mayor resto",
			Detail: fmt.Sprintf("suma %d distinta de la cantidad %d", check, total),
		}
	}
	return out, nil
}
