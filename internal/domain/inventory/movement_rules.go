package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MaxQuantity unidades máximas por movimiento o por línea.
const MaxQuantity int64 = 1_000_000_000

// ValidateMovement reglas por tipo:
//   - entrada: in > 0, out = 0
//   - salida:  out > 0, in = 0
//   - ajuste:  exactamente una de in/out > 0
func ValidateMovement(kind string, quantityIn, quantityOut int64) error {
	verr := domain.NewValidationError()
	if quantityIn < 0 {
		verr.Add("quantity_in", "no puede ser negativa")
	}
	if quantityOut < 0 {
		verr.Add("quantity_out", "no puede ser negativa")
	}
	if quantityIn > MaxQuantity {
		verr.Add("quantity_in", fmt.Sprintf("no puede superar %d", MaxQuantity))
	}
	if quantityOut > MaxQuantity {
		verr.Add("quantity_out", fmt.Sprintf("no puede superar %d", MaxQuantity))
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	switch kind {
	case entity.MovementEntrada:
		if quantityIn == 0 {
			verr.Add("quantity_in", "una entrada requiere cantidad de entrada")
		}
		if quantityOut != 0 {
			verr.Add("quantity_out", "una entrada no admite cantidad de salida")
		}
	case entity.MovementSalida:
		if quantityOut == 0 {
			verr.Add("quantity_out", "una salida requiere cantidad de salida")
		}
		if quantityIn != 0 {
			verr.Add("quantity_in", "una salida no admite cantidad de entrada")
		}
	case entity.MovementAjuste:
		if (quantityIn == 0) == (quantityOut == 0) {
			verr.Add("quantity_in", "un ajuste requiere exactamente una cantidad (entrada o salida)")
		}
	default:
		verr.Add("kind", "debe ser entrada, salida o ajuste")
	}
	return verr.OrNil()
}

// ApplyDelta devuelve el stock resultante o *domain.StockError si quedaría negativo.
// Una entrada que desbordaría el contador es error de validación.
func ApplyDelta(productID string, current, quantityIn, quantityOut int64) (int64, error) {
	if quantityIn > math.MaxInt64-current {
		return current, domain.FieldError("quantity_in", "el stock resultante excede el máximo representable")
	}
	next := current + quantityIn - quantityOut
	if next < 0 {
		return current, &domain.StockError{
			ProductID: productID,
			Requested: quantityOut,
			Available: current,
		}
	}
	return next, nil
}
