package user

import (
	"errors"
	"net/mail"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

var (
	ErrNameIsRequired            = errs.NewValueIsRequiredError("name")
	ErrEmailIsRequired           = errs.NewValueIsRequiredError("email")
	ErrPhoneIsRequired           = errs.NewValueIsRequiredError("phone")
	ErrVehicleIsRequired         = errs.NewValueIsRequiredError("vehicle")
	ErrUserIsNotConstructed      = errors.New("User must be created via NewUser constructor")
	ErrTotalDeliveriesIsNegative = errs.NewValueIsInvalidError("totalDeliveries")
)

// User is the local projection of an identity-provider account.
//
// Business rules:
//   - Name, email and phone are mandatory; email must be a valid address
//   - Drivers must have a vehicle; other roles never carry one
//   - Only drivers have a position, an availability flag and a reputation
//   - A driver may change only their own position and availability
//
// Example usage:
//
//	vehicle, _ := user.NewVehicle(user.VehicleVan, "AB-123-CD")
//	driver, err := user.NewUser(id, "Dana Driver", "dana@example.com", "+15550100", user.RoleDriver, &vehicle)
//	if err != nil {
//	    // Handle construction error
//	}
type User struct {
	id    kernel.UUID
	name  string
	email string
	phone string
	role  Role

	// vehicle is set for drivers only
	vehicle *Vehicle

	// currentLocation is the last position reported by the driver
	currentLocation *kernel.GeoPoint

	available bool
	active    bool

	reputation      Reputation
	totalDeliveries int

	isConstructed bool
}

// NewUser creates an active account. Drivers start available with the default reputation.
func NewUser(id kernel.UUID, name, email, phone string, role Role, vehicle *Vehicle) (*User, error) {
	u := &User{
		available:     role == RoleDriver,
		active:        true,
		reputation:    DefaultReputation(),
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setProfile(name, email, phone, role, vehicle),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a User from persisted state.
func RestoreUser(
	id kernel.UUID,
	name, email, phone string,
	role Role,
	vehicle *Vehicle,
	currentLocation *kernel.GeoPoint,
	available bool,
	active bool,
	reputation Reputation,
	totalDeliveries int,
) (*User, error) {
	u := &User{
		available:     available,
		active:        active,
		reputation:    reputation,
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setProfile(name, email, phone, role, vehicle),
		u.setCurrentLocation(currentLocation),
		u.setTotalDeliveries(totalDeliveries),
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) IsEqual(other *User) bool {
	return other != nil && u.id.IsEqual(other.id)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) Role() Role {
	return u.role
}

// Vehicle returns nil for non-drivers.
func (u *User) Vehicle() *Vehicle {
	return u.vehicle
}

// CurrentLocation returns nil until the driver reports a position.
func (u *User) CurrentLocation() *kernel.GeoPoint {
	return u.currentLocation
}

func (u *User) IsAvailable() bool {
	return u.available
}

func (u *User) IsActive() bool {
	return u.active
}

func (u *User) Reputation() Reputation {
	return u.reputation
}

func (u *User) TotalDeliveries() int {
	return u.totalDeliveries
}

// UpdateProfile replaces the mirrored identity data. Switching a driver to another
// role drops the vehicle and driver-only state.
func (u *User) UpdateProfile(name, email, phone string, role Role, vehicle *Vehicle) error {
	if err := u.setProfile(name, email, phone, role, vehicle); err != nil {
		return err
	}

	if role != RoleDriver {
		u.currentLocation = nil
		u.available = false
	}
	return nil
}

func (u *User) SetActive(active bool) {
	u.active = active
	if !active {
		u.available = false
	}
}

// EnsureDriver returns an InvalidRoleError naming paramName unless the user is a driver.
func (u *User) EnsureDriver(paramName string) error {
	if u.role != RoleDriver {
		return errs.NewInvalidRoleError(paramName, RoleDriver.String(), u.role.String())
	}
	return nil
}

// UpdateLocation records the driver's position. Only the driver may report it.
func (u *User) UpdateLocation(actor Actor, point kernel.GeoPoint) error {
	if err := u.ensureSelfDriver(actor, "update location"); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	u.currentLocation = &point
	return nil
}

// SetAvailability toggles whether dispatchers see the driver as free.
// An inactive driver cannot become available.
func (u *User) SetAvailability(actor Actor, available bool) error {
	if err := u.ensureSelfDriver(actor, "change availability"); err != nil {
		return err
	}
	if available && !u.active {
		return errs.NewInvalidStateError("become available", "inactive")
	}

	u.available = available
	return nil
}

// ApplyReputation overwrites the driver's reputation with a freshly computed one.
func (u *User) ApplyReputation(reputation Reputation) error {
	if err := u.EnsureDriver("driverId"); err != nil {
		return err
	}

	u.reputation = reputation
	return nil
}

func (u *User) ensureSelfDriver(actor Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleDriver || !actor.Is(u.id) {
		return errs.NewNotAuthorizedError(action, actor.ID().String())
	}
	return u.EnsureDriver("userId")
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setProfile(name, email, phone string, role Role, vehicle *Vehicle) error {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	var nameErr, emailErr, phoneErr, vehicleErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}
	switch {
	case email == "":
		emailErr = ErrEmailIsRequired
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			emailErr = errs.NewValueIsInvalidErrorWithCause("email", err)
		}
	}
	if phone == "" {
		phoneErr = ErrPhoneIsRequired
	}
	if role == RoleDriver {
		if vehicle == nil {
			vehicleErr = ErrVehicleIsRequired
		} else {
			vehicleErr = vehicle.Validate()
		}
	}

	if err := errors.Join(nameErr, emailErr, phoneErr, role.Validate(), vehicleErr); err != nil {
		return err
	}

	u.name = name
	u.email = email
	u.phone = phone
	u.role = role
	u.vehicle = nil
	if role == RoleDriver {
		v := *vehicle
		u.vehicle = &v
	}
	return nil
}

func (u *User) setCurrentLocation(point *kernel.GeoPoint) error {
	if point == nil {
		u.currentLocation = nil
		return nil
	}
	if err := point.Validate(); err != nil {
		return err
	}
	p := *point
	u.currentLocation = &p
	return nil
}

func (u *User) setTotalDeliveries(total int) error {
	if total < 0 {
		return ErrTotalDeliveriesIsNegative
	}
	u.totalDeliveries = total
	return nil
}
