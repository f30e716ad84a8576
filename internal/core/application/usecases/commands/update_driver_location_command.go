package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand reports the acting driver's current position.
type UpdateDriverLocationCommand struct {
	actor user.Actor
	point kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateDriverLocationCommand(actor user.Actor, point kernel.GeoPoint) (UpdateDriverLocationCommand, error) {
	if err := errors.Join(actor.Validate(), point.Validate()); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		actor: actor,
		point: point,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

func (c UpdateDriverLocationCommand) Actor() user.Actor {
	return c.actor
}

func (c UpdateDriverLocationCommand) Point() kernel.GeoPoint {
	return c.point
}
