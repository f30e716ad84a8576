package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/user"
)

type SetDriverAvailabilityCommandHandler struct {
	uowFactory UserUoWFactory
}

func NewSetDriverAvailabilityCommandHandler(uowFactory UserUoWFactory) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h SetDriverAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetDriverAvailabilityCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateSelf(ctx, h.uowFactory, cmd.Actor(), func(u *user.User) error {
		return u.SetAvailability(cmd.Actor(), cmd.Available())
	})
}
