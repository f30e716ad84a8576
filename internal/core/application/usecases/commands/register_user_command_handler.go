package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
)

// RegisterUserResult reports the stored user and whether it was newly created.
type RegisterUserResult struct {
	User    *user.User
	Created bool
}

// RegisterUserCommandHandler upserts the local copy of an identity-provider account.
// Only managers and admins may register users.
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
}

func NewRegisterUserCommandHandler(uowFactory UserUoWFactory) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return RegisterUserResult{}, err
	}

	actor := cmd.Actor()
	if !actor.IsStaff() {
		return RegisterUserResult{}, errs.NewNotAuthorizedError("register user", actor.ID().String())
	}

	p := cmd.Profile()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RegisterUserResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()

	existing, err := userRepo.GetForUpdate(ctx, p.ID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		u, err := user.NewUser(p.ID, p.Name, p.Email, p.Phone, p.Role, p.Vehicle)
		if err != nil {
			return RegisterUserResult{}, err
		}
		u.SetActive(p.Active)
		if err = userRepo.Add(ctx, u); err != nil {
			return RegisterUserResult{}, err
		}
		if err = uow.Commit(ctx); err != nil {
			return RegisterUserResult{}, err
		}
		return RegisterUserResult{User: u, Created: true}, nil
	case err != nil:
		return RegisterUserResult{}, err
	}

	if err = existing.UpdateProfile(p.Name, p.Email, p.Phone, p.Role, p.Vehicle); err != nil {
		return RegisterUserResult{}, err
	}
	existing.SetActive(p.Active)

	if err = userRepo.Update(ctx, existing); err != nil {
		return RegisterUserResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RegisterUserResult{}, err
	}

	return RegisterUserResult{User: existing}, nil
}
