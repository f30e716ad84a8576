package commands

import (
	"context"
)

// CaptureProofCommandHandler records proof of delivery. Proof, status, timeline and
// the driver's completion counter change in a single transaction.
type CaptureProofCommandHandler struct {
	uowFactory  UoWFactory
	sideEffects *SideEffects
}

func NewCaptureProofCommandHandler(uowFactory UoWFactory, sideEffects *SideEffects) CaptureProofCommandHandler {
	return CaptureProofCommandHandler{
		uowFactory:  uowFactory,
		sideEffects: sideEffects,
	}
}

func (h CaptureProofCommandHandler) Handle(ctx context.Context, cmd CaptureProofCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return DeliveryResult{}, err
	}

	if err = d.CaptureProof(cmd.Actor(), cmd.Proof(), now()); err != nil {
		return DeliveryResult{}, err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return DeliveryResult{}, err
	}

	if err = uow.UserRepository().IncrementTotalDeliveries(ctx, *d.DriverID()); err != nil {
		return DeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryResult{}, err
	}

	return h.sideEffects.afterCommit(ctx, d, statusNotification(d)), nil
}
