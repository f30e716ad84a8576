package delivery

import (
	"errors"
	"net/mail"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")
	ErrContactIsNotConstructed = errors.New("Contact must be created via NewContact constructor")
)

// Address is a postal address pinned to a map position. Only the position is mandatory.
type Address struct {
	street  string
	city    string
	state   string
	zipCode string
	country string
	point   kernel.GeoPoint
	guard   guard.ConstructorGuard
}

func NewAddress(street, city, state, zipCode, country string, point kernel.GeoPoint) (Address, error) {
	if err := point.Validate(); err != nil {
		return Address{}, errs.NewValueIsRequiredErrorWithCause("coordinates", err)
	}

	return Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		country: strings.TrimSpace(country),
		point:   point,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Street() string {
	return a.street
}

func (a Address) City() string {
	return a.city
}

func (a Address) State() string {
	return a.state
}

func (a Address) ZipCode() string {
	return a.zipCode
}

func (a Address) Country() string {
	return a.country
}

func (a Address) Coordinates() kernel.GeoPoint {
	return a.point
}

// Contact is the person to meet at pickup or at the destination.
type Contact struct {
	name  string
	phone string
	email string
	guard guard.ConstructorGuard
}

// NewContact accepts empty fields; a non-empty email must be a valid address.
func NewContact(name, phone, email string) (Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Contact{}, errs.NewValueIsInvalidErrorWithCause("contact.email", err)
		}
	}

	return Contact{
		name:  strings.TrimSpace(name),
		phone: strings.TrimSpace(phone),
		email: email,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c Contact) Validate() error {
	return c.guard.Validate(ErrContactIsNotConstructed)
}

func (c Contact) Name() string  { return c.name }
func (c Contact) Phone() string { return c.phone }
func (c Contact) Email() string { return c.email }
