package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrTransitionStatusCommandIsNotConstructed = errors.New(
	"TransitionStatusCommand must be created via NewTransitionStatusCommand constructor",
)

// TransitionStatusCommand moves a delivery along its lifecycle.
// The status arrives as its wire name; an unknown name is an InvalidStatusError.
type TransitionStatusCommand struct {
	actor      user.Actor
	deliveryID kernel.UUID
	status     delivery.Status
	note       string
	location   *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewTransitionStatusCommand(
	actor user.Actor,
	deliveryID kernel.UUID,
	status string,
	note string,
	location *kernel.GeoPoint,
) (TransitionStatusCommand, error) {
	next, statusErr := delivery.ParseStatus(status)

	var locationErr error
	if location != nil {
		locationErr = location.Validate()
	}

	if err := errors.Join(actor.Validate(), deliveryID.Validate(), statusErr, locationErr); err != nil {
		return TransitionStatusCommand{}, err
	}

	return TransitionStatusCommand{
		actor:      actor,
		deliveryID: deliveryID,
		status:     next,
		note:       note,
		location:   location,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionStatusCommandIsNotConstructed)
}

func (c TransitionStatusCommand) Actor() user.Actor {
	return c.actor
}

func (c TransitionStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c TransitionStatusCommand) Status() delivery.Status {
	return c.status
}

func (c TransitionStatusCommand) Note() string {
	return c.note
}

// Location is nil when the caller reported no position.
func (c TransitionStatusCommand) Location() *kernel.GeoPoint {
	return c.location
}
