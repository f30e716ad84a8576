package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand binds a driver to a pending (or not yet picked up) delivery.
//
// Example:
//
//	cmd, err := NewAssignDriverCommand(manager, deliveryID, driverID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type AssignDriverCommand struct {
	actor      user.Actor
	deliveryID kernel.UUID
	driverID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(actor user.Actor, deliveryID, driverID kernel.UUID) (AssignDriverCommand, error) {
	if err := errors.Join(actor.Validate(), deliveryID.Validate(), driverID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		actor:      actor,
		deliveryID: deliveryID,
		driverID:   driverID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) Actor() user.Actor {
	return c.actor
}

func (c AssignDriverCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}
