package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
)

// TransitionStatusCommandHandler applies a status change and its timeline entry in
// one transaction. Entering delivered also bumps the driver's completion counter.
type TransitionStatusCommandHandler struct {
	uowFactory  UoWFactory
	sideEffects *SideEffects
}

func NewTransitionStatusCommandHandler(uowFactory UoWFactory, sideEffects *SideEffects) TransitionStatusCommandHandler {
	return TransitionStatusCommandHandler{
		uowFactory:  uowFactory,
		sideEffects: sideEffects,
	}
}

func (h TransitionStatusCommandHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) (DeliveryResult, error) {
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

	if err = d.Transition(cmd.Actor(), cmd.Status(), cmd.Note(), cmd.Location(), now()); err != nil {
		return DeliveryResult{}, err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return DeliveryResult{}, err
	}

	if d.Status() == delivery.Delivered {
		if err = uow.UserRepository().IncrementTotalDeliveries(ctx, *d.DriverID()); err != nil {
			return DeliveryResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryResult{}, err
	}

	return h.sideEffects.afterCommit(ctx, d, statusNotification(d)), nil
}
