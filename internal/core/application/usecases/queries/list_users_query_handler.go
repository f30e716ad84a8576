package queries

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListUsersQueryHandler struct {
	db *gorm.DB
}

func NewListUsersQueryHandler(db *gorm.DB) ListUsersQueryHandler {
	return ListUsersQueryHandler{db: db}
}

type userRow struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           string
	Role            string
	VehicleType     *string
	VehiclePlate    *string
	LocationLon     *float64
	LocationLat     *float64
	Available       bool
	Active          bool
	Rating          float64
	RatedDeliveries int
	TotalDeliveries int
	CreatedAt       time.Time
}

// Handle pages through users. Only managers and admins may call it.
func (h ListUsersQueryHandler) Handle(ctx context.Context, query ListUsersQuery) (UserPage, error) {
	if err := query.Validate(); err != nil {
		return UserPage{}, err
	}

	actor := query.Actor()
	if !actor.IsStaff() {
		return UserPage{}, errs.NewNotAuthorizedError("list users", actor.ID().String())
	}

	filter := query.Filter()
	base := func() *gorm.DB {
		tx := h.db.WithContext(ctx).Table("users")
		if filter.Role != nil {
			tx = tx.Where("role = ?", filter.Role.String())
		}
		if filter.Available != nil {
			tx = tx.Where("available = ?", *filter.Available)
		}
		return tx
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return UserPage{}, err
	}

	p := query.Pagination()
	var rows []userRow
	err := base().
		Select(`id, name, email, phone, role, vehicle_type, vehicle_plate, location_lon, location_lat,
			available, active, rating, rated_deliveries, total_deliveries, created_at`).
		Order("name, id").
		Offset(p.offset()).
		Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return UserPage{}, err
	}

	items := make([]UserSummary, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromBytes(r.ID[:])
		if err != nil {
			return UserPage{}, err
		}
		items = append(items, UserSummary{
			ID:              id,
			Name:            r.Name,
			Email:           r.Email,
			Phone:           r.Phone,
			Role:            r.Role,
			VehicleType:     deref(r.VehicleType),
			VehiclePlate:    deref(r.VehiclePlate),
			Location:        pointView(r.LocationLon, r.LocationLat),
			Available:       r.Available,
			Active:          r.Active,
			Rating:          r.Rating,
			RatedDeliveries: r.RatedDeliveries,
			TotalDeliveries: r.TotalDeliveries,
			CreatedAt:       r.CreatedAt.UTC(),
		})
	}

	return UserPage{
		Items: items,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.pages(total),
	}, nil
}
