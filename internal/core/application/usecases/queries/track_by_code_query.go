package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/pkg/guard"
)

var ErrTrackByCodeQueryIsNotConstructed = errors.New(
	"TrackByCodeQuery must be created via NewTrackByCodeQuery constructor",
)

// TrackByCodeQuery is the anonymous lookup of a shipment by its tracking code.
// The code is matched case-insensitively.
//
// Example:
//
//	query, err := NewTrackByCodeQuery("cdlx1k2m3abcd")
//	view, err := handler.Handle(ctx, query)
//	fmt.Println(view.Status)
type TrackByCodeQuery struct {
	code  delivery.TrackingCode
	guard guard.ConstructorGuard
}

func NewTrackByCodeQuery(code string) (TrackByCodeQuery, error) {
	parsed, err := delivery.ParseTrackingCode(code)
	if err != nil {
		return TrackByCodeQuery{}, err
	}
	return TrackByCodeQuery{code: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackByCodeQuery) Validate() error {
	return q.guard.Validate(ErrTrackByCodeQueryIsNotConstructed)
}

func (q TrackByCodeQuery) Code() delivery.TrackingCode {
	return q.code
}
