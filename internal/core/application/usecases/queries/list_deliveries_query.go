package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrListDeliveriesQueryIsNotConstructed = errors.New(
		"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
	)
	ErrListMyDeliveriesQueryIsNotConstructed = errors.New(
		"ListMyDeliveriesQuery must be created via NewListMyDeliveriesQuery constructor",
	)
)

// DeliveryFilter narrows a staff listing. Nil fields do not filter.
type DeliveryFilter struct {
	Status   *delivery.Status
	Priority *delivery.Priority
	DriverID *kernel.UUID
}

// ListDeliveriesQuery is the staff back-office listing of every delivery.
//
// Example:
//
//	status := delivery.InTransit
//	query, _ := NewListDeliveriesQuery(manager, DeliveryFilter{Status: &status}, NewPagination(1, 20))
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d\n", len(page.Items), page.Total)
type ListDeliveriesQuery struct {
	actor      user.Actor
	filter     DeliveryFilter
	pagination Pagination
	guard      guard.ConstructorGuard
}

func NewListDeliveriesQuery(actor user.Actor, filter DeliveryFilter, pagination Pagination) (ListDeliveriesQuery, error) {
	var statusErr, priorityErr error
	if filter.Status != nil {
		statusErr = filter.Status.Validate()
	}
	if filter.Priority != nil {
		priorityErr = filter.Priority.Validate()
	}
	if err := errors.Join(actor.Validate(), statusErr, priorityErr); err != nil {
		return ListDeliveriesQuery{}, err
	}

	return ListDeliveriesQuery{
		actor:      actor,
		filter:     filter,
		pagination: NewPagination(pagination.Page, pagination.Limit),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

func (q ListDeliveriesQuery) Actor() user.Actor {
	return q.actor
}

func (q ListDeliveriesQuery) Filter() DeliveryFilter {
	return q.filter
}

func (q ListDeliveriesQuery) Pagination() Pagination {
	return q.pagination
}

// ListMyDeliveriesQuery lists the caller's own deliveries: the jobs of a driver
// or the bookings of a client.
type ListMyDeliveriesQuery struct {
	actor      user.Actor
	status     *delivery.Status
	pagination Pagination
	guard      guard.ConstructorGuard
}

func NewListMyDeliveriesQuery(actor user.Actor, status *delivery.Status, pagination Pagination) (ListMyDeliveriesQuery, error) {
	var statusErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if err := errors.Join(actor.Validate(), statusErr); err != nil {
		return ListMyDeliveriesQuery{}, err
	}

	return ListMyDeliveriesQuery{
		actor:      actor,
		status:     status,
		pagination: NewPagination(pagination.Page, pagination.Limit),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListMyDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListMyDeliveriesQueryIsNotConstructed)
}

func (q ListMyDeliveriesQuery) Actor() user.Actor {
	return q.actor
}

func (q ListMyDeliveriesQuery) Status() *delivery.Status {
	return q.status
}

func (q ListMyDeliveriesQuery) Pagination() Pagination {
	return q.pagination
}
