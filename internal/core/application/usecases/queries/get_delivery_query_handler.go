package queries

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// GetDeliveryQueryHandler loads the whole aggregate through the repository so the
// caller sees exactly what the write side sees.
type GetDeliveryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetDeliveryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{uowFactory: uowFactory}
}

func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (*delivery.Delivery, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	d, err := h.uowFactory.Create().DeliveryRepository().Get(ctx, query.DeliveryID())
	if err != nil {
		return nil, err
	}

	if !d.CanView(query.Actor()) {
		return nil, errs.NewNotAuthorizedError("view delivery "+d.TrackingCode().String(), query.Actor().ID().String())
	}

	return d, nil
}
