package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
)

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement(ctx, MovementInput).
// Usar desde handlers HTTP o desde otros casos de uso que tengan actorID y dto.RegisterMovementRequest.
func (uc *LedgerUseCase) RecordMovementFromRequest(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (string, error) {
	input := MovementInput{
		ProductID:   in.ProductID,
		Kind:        in.Type,
		QuantityIn:  in.QuantityIn,
		QuantityOut: in.QuantityOut,
		SaleID:      in.SaleID,
		PurchaseID:  in.PurchaseID,
		ActorID:     actorID,
		Note:        in.Note,
	}
	if in.EffectiveAt != nil {
		input.EffectiveAt = *in.EffectiveAt
	}
	return uc.RecordMovement(ctx, input)
}
