// Package userrepo provides data transfer objects and mapping functions for persisting
// the local projection of identity-provider users.
package userrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// EmailIndex is the unique index on user email.
const EmailIndex = "idx_users_email"

// UserDTO represents the database structure for persisting user aggregates.
type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"type:varchar(255);not null"`
	Email string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Phone string    `gorm:"type:varchar(64);not null"`
	Role  string    `gorm:"type:varchar(16);not null;index"`

	VehicleType  *string `gorm:"type:varchar(16)"`
	VehiclePlate *string `gorm:"type:varchar(32)"`

	Location LocationDTO `gorm:"embedded;embeddedPrefix:location_"`

	Available bool `gorm:"not null;default:false"`
	Active    bool `gorm:"not null;default:true"`

	Rating          float64 `gorm:"not null;default:5"`
	RatedDeliveries int     `gorm:"not null;default:0"`
	TotalDeliveries int     `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming convention.
func (UserDTO) TableName() string {
	return "users"
}

// LocationDTO is the driver's last reported position; both columns are NULL until then.
type LocationDTO struct {
	Lon *float64
	Lat *float64
}

// fromDomain converts a user aggregate to its database representation.
func fromDomain(u *user.User) UserDTO {
	dto := UserDTO{
		ID:              u.ID().Bytes(),
		Name:            u.Name(),
		Email:           u.Email(),
		Phone:           u.Phone(),
		Role:            u.Role().String(),
		Available:       u.IsAvailable(),
		Active:          u.IsActive(),
		Rating:          u.Reputation().Rating(),
		RatedDeliveries: u.Reputation().RatedDeliveries(),
		TotalDeliveries: u.TotalDeliveries(),
	}

	if v := u.Vehicle(); v != nil {
		vehicleType, plate := string(v.Type()), v.Plate()
		dto.VehicleType = &vehicleType
		dto.VehiclePlate = &plate
	}

	if loc := u.CurrentLocation(); loc != nil {
		lon, lat := loc.Longitude(), loc.Latitude()
		dto.Location = LocationDTO{Lon: &lon, Lat: &lat}
	}

	return dto
}

// toDomain reconstructs the user aggregate using RestoreUser.
func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var vehicle *user.Vehicle
	if dto.VehicleType != nil {
		plate := ""
		if dto.VehiclePlate != nil {
			plate = *dto.VehiclePlate
		}
		v, vehicleErr := user.NewVehicle(user.VehicleType(*dto.VehicleType), plate)
		if vehicleErr != nil {
			return nil, vehicleErr
		}
		vehicle = &v
	}

	var location *kernel.GeoPoint
	if dto.Location.Lon != nil && dto.Location.Lat != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Location.Lon, *dto.Location.Lat)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	reputation, err := user.NewReputation(dto.Rating, dto.RatedDeliveries)
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(
		id,
		dto.Name,
		dto.Email,
		dto.Phone,
		role,
		vehicle,
		location,
		dto.Available,
		dto.Active,
		reputation,
		dto.TotalDeliveries,
	)
}
