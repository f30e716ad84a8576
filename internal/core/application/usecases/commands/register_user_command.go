package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// UserProfile is the identity-provider data mirrored into the local projection.
// Vehicle is required for drivers and ignored for other roles.
type UserProfile struct {
	ID      kernel.UUID
	Name    string
	Email   string
	Phone   string
	Role    user.Role
	Vehicle *user.Vehicle
	Active  bool
}

// RegisterUserCommand creates or refreshes a user profile. Profile fields are
// validated by the user aggregate.
type RegisterUserCommand struct {
	actor   user.Actor
	profile UserProfile

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(actor user.Actor, profile UserProfile) (RegisterUserCommand, error) {
	if err := errors.Join(actor.Validate(), profile.ID.Validate(), profile.Role.Validate()); err != nil {
		return RegisterUserCommand{}, err
	}

	return RegisterUserCommand{
		actor:   actor,
		profile: profile,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) Actor() user.Actor {
	return c.actor
}

func (c RegisterUserCommand) Profile() UserProfile {
	return c.profile
}
