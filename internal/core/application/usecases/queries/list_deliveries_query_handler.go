package queries

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListDeliveriesQueryHandler pages through deliveries newest first. It serves both
// the staff listing and the caller's own deliveries.
type ListDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListDeliveriesQueryHandler(db *gorm.DB) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{db: db}
}

// Handle serves the staff listing. Only managers and admins may call it.
func (h ListDeliveriesQueryHandler) Handle(ctx context.Context, query ListDeliveriesQuery) (DeliveryPage, error) {
	if err := query.Validate(); err != nil {
		return DeliveryPage{}, err
	}

	actor := query.Actor()
	if !actor.IsStaff() {
		return DeliveryPage{}, errs.NewNotAuthorizedError("list deliveries", actor.ID().String())
	}

	filter := query.Filter()
	return h.page(ctx, query.Pagination(), func(tx *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			tx = tx.Where("status = ?", filter.Status.String())
		}
		if filter.Priority != nil {
			tx = tx.Where("priority = ?", filter.Priority.String())
		}
		if filter.DriverID != nil {
			tx = tx.Where("driver_id = ?", filter.DriverID.Bytes())
		}
		return tx
	})
}

// HandleMine lists the deliveries a driver is assigned to or a client booked.
func (h ListDeliveriesQueryHandler) HandleMine(ctx context.Context, query ListMyDeliveriesQuery) (DeliveryPage, error) {
	if err := query.Validate(); err != nil {
		return DeliveryPage{}, err
	}

	actor := query.Actor()
	var column string
	switch actor.Role() {
	case user.RoleDriver:
		column = "driver_id"
	case user.RoleClient:
		column = "client_id"
	default:
		return DeliveryPage{}, errs.NewNotAuthorizedError("list own deliveries", actor.ID().String())
	}

	status := query.Status()
	return h.page(ctx, query.Pagination(), func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where(column+" = ?", actor.ID().Bytes())
		if status != nil {
			tx = tx.Where("status = ?", status.String())
		}
		return tx
	})
}

type summaryRow struct {
	ID           uuid.UUID
	TrackingCode string
	ClientID     uuid.UUID
	DriverID     *uuid.UUID
	Status       string
	Priority     string
	PickupCity   string
	DeliveryCity string
	Price        float64
	DistanceKm   float64
	RatingScore  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (h ListDeliveriesQueryHandler) page(
	ctx context.Context,
	p Pagination,
	scope func(*gorm.DB) *gorm.DB,
) (DeliveryPage, error) {
	base := func() *gorm.DB {
		return scope(h.db.WithContext(ctx).Table("deliveries"))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return DeliveryPage{}, err
	}

	var rows []summaryRow
	err := base().
		Select(`id, tracking_code, client_id, driver_id, status, priority, pickup_city, delivery_city,
			price, distance_km, rating_score, created_at, updated_at`).
		Order("created_at DESC, id").
		Offset(p.offset()).
		Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return DeliveryPage{}, err
	}

	items := make([]DeliverySummary, 0, len(rows))
	for _, r := range rows {
		item, err := r.toSummary()
		if err != nil {
			return DeliveryPage{}, err
		}
		items = append(items, item)
	}

	return DeliveryPage{
		Items: items,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.pages(total),
	}, nil
}

func (r summaryRow) toSummary() (DeliverySummary, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return DeliverySummary{}, err
	}
	clientID, err := kernel.UUIDFromBytes(r.ClientID[:])
	if err != nil {
		return DeliverySummary{}, err
	}

	var driverID *kernel.UUID
	if r.DriverID != nil {
		d, err := kernel.UUIDFromBytes(r.DriverID[:])
		if err != nil {
			return DeliverySummary{}, err
		}
		driverID = &d
	}

	return DeliverySummary{
		ID:           id,
		TrackingCode: r.TrackingCode,
		ClientID:     clientID,
		DriverID:     driverID,
		Status:       r.Status,
		Priority:     r.Priority,
		PickupCity:   r.PickupCity,
		DeliveryCity: r.DeliveryCity,
		Price:        r.Price,
		DistanceKm:   r.DistanceKm,
		RatingScore:  r.RatingScore,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}, nil
}
