package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrListUsersQueryIsNotConstructed = errors.New(
	"ListUsersQuery must be created via NewListUsersQuery constructor",
)

// UserFilter narrows the user directory. Nil fields do not filter.
type UserFilter struct {
	Role      *user.Role
	Available *bool
}

// ListUsersQuery is the staff user directory, ordered by name.
type ListUsersQuery struct {
	actor      user.Actor
	filter     UserFilter
	pagination Pagination
	guard      guard.ConstructorGuard
}

func NewListUsersQuery(actor user.Actor, filter UserFilter, pagination Pagination) (ListUsersQuery, error) {
	var roleErr error
	if filter.Role != nil {
		roleErr = filter.Role.Validate()
	}
	if err := errors.Join(actor.Validate(), roleErr); err != nil {
		return ListUsersQuery{}, err
	}

	return ListUsersQuery{
		actor:      actor,
		filter:     filter,
		pagination: NewPagination(pagination.Page, pagination.Limit),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListUsersQuery) Validate() error {
	return q.guard.Validate(ErrListUsersQueryIsNotConstructed)
}

func (q ListUsersQuery) Actor() user.Actor {
	return q.actor
}

func (q ListUsersQuery) Filter() UserFilter {
	return q.filter
}

func (q ListUsersQuery) Pagination() Pagination {
	return q.pagination
}
