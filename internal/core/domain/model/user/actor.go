package user

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of an operation. Identity and role are taken
// from the verified token as-is; no lookup is performed.
type Actor struct { //nolint:recvcheck //using for validation
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id kernel.UUID, role Role) (Actor, error) {
	actor := Actor{guard: guard.NewConstructorGuard()}

	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}

	actor.id = id
	actor.role = role
	return actor, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor is the user identified by id.
func (a Actor) Is(id kernel.UUID) bool {
	return a.id.IsEqual(id)
}

func (a Actor) IsStaff() bool {
	return a.role.IsStaff()
}
