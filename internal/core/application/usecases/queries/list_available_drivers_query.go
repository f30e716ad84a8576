package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrListAvailableDriversQueryIsNotConstructed = errors.New(
	"ListAvailableDriversQuery must be created via NewListAvailableDriversQuery constructor",
)

// ListAvailableDriversQuery finds active drivers who are free to take a job.
// With near set, drivers are ranked by distance and those without a known
// position are left out.
type ListAvailableDriversQuery struct {
	actor user.Actor
	near  *kernel.GeoPoint
	limit int
	guard guard.ConstructorGuard
}

func NewListAvailableDriversQuery(actor user.Actor, near *kernel.GeoPoint, limit int) (ListAvailableDriversQuery, error) {
	var nearErr error
	if near != nil {
		nearErr = near.Validate()
	}
	if err := errors.Join(actor.Validate(), nearErr); err != nil {
		return ListAvailableDriversQuery{}, err
	}

	return ListAvailableDriversQuery{
		actor: actor,
		near:  near,
		limit: NewPagination(DefaultPage, limit).Limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListAvailableDriversQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableDriversQueryIsNotConstructed)
}

func (q ListAvailableDriversQuery) Actor() user.Actor {
	return q.actor
}

func (q ListAvailableDriversQuery) Near() *kernel.GeoPoint {
	return q.near
}

func (q ListAvailableDriversQuery) Limit() int {
	return q.limit
}
