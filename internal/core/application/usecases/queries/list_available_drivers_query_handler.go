package queries

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListAvailableDriversQueryHandler struct {
	db *gorm.DB
}

func NewListAvailableDriversQueryHandler(db *gorm.DB) ListAvailableDriversQueryHandler {
	return ListAvailableDriversQueryHandler{db: db}
}

type driverRow struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	VehicleType     *string
	VehiclePlate    *string
	LocationLon     *float64
	LocationLat     *float64
	Rating          float64
	RatedDeliveries int
	TotalDeliveries int
}

func (h ListAvailableDriversQueryHandler) Handle(ctx context.Context, query ListAvailableDriversQuery) ([]DriverSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	if !actor.IsStaff() {
		return nil, errs.NewNotAuthorizedError("list available drivers", actor.ID().String())
	}

	tx := h.db.WithContext(ctx).
		Table("users").
		Select("id, name, phone, vehicle_type, vehicle_plate, location_lon, location_lat, rating, rated_deliveries, total_deliveries").
		Where("role = ? AND available AND active", user.RoleDriver.String())

	near := query.Near()
	if near != nil {
		// ordered by the <-> operator so the partial GiST index on the position is used
		tx = tx.Where("location_lon IS NOT NULL AND location_lat IS NOT NULL").
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "point(location_lon, location_lat) <-> point(?, ?)",
				Vars: []any{near.Longitude(), near.Latitude()},
			}})
	} else {
		tx = tx.Order("rating DESC, name")
	}

	var rows []driverRow
	if err := tx.Limit(query.Limit()).Scan(&rows).Error; err != nil {
		return nil, err
	}

	drivers := make([]DriverSummary, 0, len(rows))
	for _, r := range rows {
		d, err := r.toSummary(near)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func (r driverRow) toSummary(near *kernel.GeoPoint) (DriverSummary, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return DriverSummary{}, err
	}

	s := DriverSummary{
		ID:              id,
		Name:            r.Name,
		Phone:           r.Phone,
		VehicleType:     deref(r.VehicleType),
		VehiclePlate:    deref(r.VehiclePlate),
		Location:        pointView(r.LocationLon, r.LocationLat),
		Rating:          r.Rating,
		RatedDeliveries: r.RatedDeliveries,
		TotalDeliveries: r.TotalDeliveries,
	}

	if near != nil && s.Location != nil {
		at, err := kernel.NewGeoPoint(s.Location.Longitude, s.Location.Latitude)
		if err != nil {
			return DriverSummary{}, err
		}
		km, err := near.DistanceKm(at)
		if err != nil {
			return DriverSummary{}, err
		}
		s.DistanceKm = &km
	}

	return s, nil
}
