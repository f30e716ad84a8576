package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/user"
)

// UpdateDriverLocationCommandHandler stores the latest driver position.
// Cached tracking views pick it up when their entry expires.
type UpdateDriverLocationCommandHandler struct {
	uowFactory UserUoWFactory
}

func NewUpdateDriverLocationCommandHandler(uowFactory UserUoWFactory) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateSelf(ctx, h.uowFactory, cmd.Actor(), func(u *user.User) error {
		return u.UpdateLocation(cmd.Actor(), cmd.Point())
	})
}

// updateSelf loads the acting user under lock, applies change and persists it.
func updateSelf(ctx context.Context, factory UserUoWFactory, actor user.Actor, change func(*user.User) error) (*user.User, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()

	u, err := userRepo.GetForUpdate(ctx, actor.ID())
	if err != nil {
		return nil, err
	}

	if err = change(u); err != nil {
		return nil, err
	}

	if err = userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return u, nil
}
