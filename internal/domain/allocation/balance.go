package allocation

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Motivos de exclusión de un ítem.
const (
	ExclusionNoBalance           = "SEM_SALDO"
	ExclusionInsufficientBalance = "SALDO_INSUFICIENTE"
)

// Candidate es una modalidad con saldo para el contrato-producto del ítem.
type Candidate struct {
	ModalityID string
	Repasse    decimal.Decimal
	Initial    int64
	Available  int64
}

// Slice es la cantidad final asignada a una modalidad.
type Slice struct {
	ModalityID string
	Percentual decimal.Decimal // percentual renormalizado entre las modalidades con saldo
	Quantity   int64
	Available  int64
}

// Exclusion explica por qué el ítem quedó fuera del faturamento.
type Exclusion struct {
	Reason    string
	Required  int64
	Available int64
}

// Shortfall devuelve lo que falta para cubrir el ítem.
func (e *Exclusion) Shortfall() int64 {
	if e.Required <= e.Available {
		return 0
	}
	return e.Required - e.Available
}

// Message devuelve el texto legible de la alerta.
func (e *Exclusion) Message() string {
	if e.Reason == ExclusionNoBalance {
		return "ninguna modalidad tiene saldo disponible"
	}
	return fmt.Sprintf("saldo insuficiente: requerido %d, disponible %d, faltan %d", e.Required, e.Available, e.Shortfall())
}

// Result es el reparto de un ítem; si Excluded no es nil, Slices está vacío.
type Result struct {
	Slices   []Slice
	Excluded *Exclusion
}

// AllocateWithBalance reparte quantity entre las modalidades con saldo respetando el disponible de cada una.
// Filtra modalidades sin saldo, renormaliza percentuales, reparte por mayor resto, topa en el disponible
// y redistribuye el excedente entre las que tienen capacidad ociosa (mayor capacidad primero).
func AllocateWithBalance(quantity int64, candidates []Candidate) (Result, error) {
	eligible := make([]Candidate, 0, len(candidates))
	var totalAvailable int64
	for _, c := range candidates {
		if c.Initial > 0 && c.Available > 0 {
			eligible = append(eligible, c)
			totalAvailable += c.Available
		}
	}
	if len(eligible) == 0 {
		return Result{Excluded: &Exclusion{Reason: ExclusionNoBalance, Required: quantity}}, nil
	}
	if totalAvailable < quantity {
		return Result{Excluded: &Exclusion{Reason: ExclusionInsufficientBalance, Required: quantity, Available: totalAvailable}}, nil
	}

	weights := make([]Weight, len(eligible))
	for i, c := range eligible {
		weights[i] = Weight{Key: c.ModalityID, Repasse: c.Repasse}
	}
	shares, err := CalculatePercentages(weights)
	if err != nil {
		return Result{}, err
	}
	allocs, err := AllocateQuantity(quantity, shares)
	if err != nil {
		return Result{}, err
	}

	slices := make([]Slice, len(eligible))
	var excess int64
	for i, a := range allocs {
		q := a.Quantity
		if q > eligible[i].Available {
			excess += q - eligible[i].Available
			q = eligible[i].Available
		}
		slices[i] = Slice{ModalityID: a.Key, Percentual: a.Percentual, Quantity: q, Available: eligible[i].Available}
	}

	if excess > 0 {
		order := make([]int, 0, len(slices))
		for i := range slices {
			if slices[i].Available > slices[i].Quantity {
				order = append(order, i)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			sa, sb := slices[order[a]], slices[order[b]]
			return sa.Available-sa.Quantity > sb.Available-sb.Quantity
		})
		for _, i := range order {
			if excess == 0 {
				break
			}
			spare := slices[i].Available - slices[i].Quantity
			give := min(spare, excess)
			slices[i].Quantity += give
			excess -= give
		}
		if excess > 0 {
			return Result{}, &domain.InternalAllocationError{
				Op:     "redistribución de excedente",
				Detail: fmt.Sprintf("quedaron %d unidades sin modalidad con saldo", excess),
			}
		}
	}

	var check int64
	for _, s := range slices {
		check += s.Quantity
	}
	if check != quantity {
		return Result{}, &domain.InternalAllocationError{
			Op:     "ajuste a saldo",
			Detail: fmt.Sprintf("suma %d distinta de la cantidad %d", check, quantity),
		}
	}
	return Result{Slices: slices}, nil
}
