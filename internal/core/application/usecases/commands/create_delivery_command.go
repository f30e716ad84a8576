package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand books a new shipment for the acting client.
// The details are validated by the delivery aggregate when the handler builds it.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(actor, details)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	fmt.Println(result.Delivery.TrackingCode())
type CreateDeliveryCommand struct {
	actor   user.Actor
	details delivery.Details

	guard guard.ConstructorGuard
}

func NewCreateDeliveryCommand(actor user.Actor, details delivery.Details) (CreateDeliveryCommand, error) {
	if err := actor.Validate(); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return CreateDeliveryCommand{
		actor:   actor,
		details: details,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

func (c CreateDeliveryCommand) Actor() user.Actor {
	return c.actor
}

func (c CreateDeliveryCommand) Details() delivery.Details {
	return c.details
}
