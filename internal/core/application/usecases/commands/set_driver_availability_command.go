package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrSetDriverAvailabilityCommandIsNotConstructed = errors.New(
	"SetDriverAvailabilityCommand must be created via NewSetDriverAvailabilityCommand constructor",
)

// SetDriverAvailabilityCommand toggles whether the acting driver takes new work.
type SetDriverAvailabilityCommand struct {
	actor     user.Actor
	available bool

	guard guard.ConstructorGuard
}

func NewSetDriverAvailabilityCommand(actor user.Actor, available bool) (SetDriverAvailabilityCommand, error) {
	if err := actor.Validate(); err != nil {
		return SetDriverAvailabilityCommand{}, err
	}

	return SetDriverAvailabilityCommand{
		actor:     actor,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SetDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverAvailabilityCommandIsNotConstructed)
}

func (c SetDriverAvailabilityCommand) Actor() user.Actor {
	return c.actor
}

func (c SetDriverAvailabilityCommand) Available() bool {
	return c.available
}
