package commands

import (
	"context"

	"parceltrack/internal/pkg/errs"
)

// AssignDriverCommandHandler orchestrates driver assignment.
// The delivery row is locked first, then the driver is loaded, so concurrent
// assignments of the same delivery serialise.
//
// Example:
//
//	handler := NewAssignDriverCommandHandler(uowFactory, sideEffects)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrNotAuthorized):
//	    // caller is not staff
//	case errors.Is(err, errs.ErrInvalidRole):
//	    // target user is not a driver
//	case errors.Is(err, errs.ErrInvalidState):
//	    // parcel already picked up or delivery finished
//	}
type AssignDriverCommandHandler struct {
	uowFactory  UoWFactory
	sideEffects *SideEffects
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory, sideEffects *SideEffects) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory:  uowFactory,
		sideEffects: sideEffects,
	}
}

// Handle assigns the driver and notifies both the driver and the client after commit.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}

	actor := cmd.Actor()
	if !actor.IsStaff() {
		return DeliveryResult{}, errs.NewNotAuthorizedError("assign driver", actor.ID().String())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	userRepo := uow.UserRepository()

	d, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return DeliveryResult{}, err
	}

	driver, err := userRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return DeliveryResult{}, err
	}
	if err = driver.EnsureDriver("driverId"); err != nil {
		return DeliveryResult{}, err
	}

	if err = d.AssignDriver(actor, driver.ID(), driver.Name(), now()); err != nil {
		return DeliveryResult{}, err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return DeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryResult{}, err
	}

	return h.sideEffects.afterCommit(ctx, d, assignmentNotification(d), statusNotification(d)), nil
}
