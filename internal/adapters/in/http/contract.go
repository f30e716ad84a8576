package http

import (
	"errors"
	"time"

	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Point struct {
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
}

func (p Point) toDomain() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(p.Longitude, p.Latitude)
}

type Address struct {
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country" validate:"required"`
	Location Point  `json:"location"`
}

type Contact struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type Package struct {
	Description string  `json:"description" validate:"required"`
	WeightKg    float64 `json:"weightKg" validate:"gte=0"`
	LengthCm    float64 `json:"lengthCm" validate:"gte=0"`
	WidthCm     float64 `json:"widthCm" validate:"gte=0"`
	HeightCm    float64 `json:"heightCm" validate:"gte=0"`
	Value       float64 `json:"value" validate:"gte=0"`
	Fragile     bool    `json:"fragile"`
}

type NewDelivery struct {
	PickupAddress            Address    `json:"pickupAddress"`
	DeliveryAddress          Address    `json:"deliveryAddress"`
	PickupContact            Contact    `json:"pickupContact"`
	DeliveryContact          Contact    `json:"deliveryContact"`
	Package                  Package    `json:"package"`
	Priority                 string     `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	SpecialInstructions      string     `json:"specialInstructions"`
	Price                    float64    `json:"price" validate:"gte=0"`
	DistanceKm               *float64   `json:"distanceKm" validate:"omitempty,gte=0"`
	EstimatedDurationMinutes *int       `json:"estimatedDurationMinutes" validate:"omitempty,gte=0"`
	EstimatedPickupTime      *time.Time `json:"estimatedPickupTime"`
	EstimatedDeliveryTime    *time.Time `json:"estimatedDeliveryTime"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driverId" validate:"required"`
}

type TransitionStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Note     string `json:"note"`
	Location *Point `json:"location"`
}

type CaptureProofRequest struct {
	RecipientName string `json:"recipientName" validate:"required"`
	SignatureRef  string `json:"signatureRef"`
	PhotoRef      string `json:"photoRef"`
	Note          string `json:"note"`
}

type RateDeliveryRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type RegisterUserRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Role         string `json:"role" validate:"required"`
	VehicleType  string `json:"vehicleType"`
	VehiclePlate string `json:"vehiclePlate"`
	Active       *bool  `json:"active"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type TimelineEntry struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
	Location   *Point    `json:"location,omitempty"`
	Note       string    `json:"note,omitempty"`
}

type Proof struct {
	RecipientName string    `json:"recipientName"`
	SignatureRef  string    `json:"signatureRef,omitempty"`
	PhotoRef      string    `json:"photoRef,omitempty"`
	Note          string    `json:"note,omitempty"`
	CapturedAt    time.Time `json:"capturedAt"`
}

type Rating struct {
	Score   int       `json:"score"`
	Comment string    `json:"comment,omitempty"`
	RatedAt time.Time `json:"ratedAt"`
}

// Delivery is the full view returned to staff, the client and the assigned driver.
type Delivery struct {
	ID                       string          `json:"id"`
	TrackingCode             string          `json:"trackingCode"`
	ClientID                 string          `json:"clientId"`
	DriverID                 *string         `json:"driverId,omitempty"`
	PickupAddress            Address         `json:"pickupAddress"`
	DeliveryAddress          Address         `json:"deliveryAddress"`
	PickupContact            Contact         `json:"pickupContact"`
	DeliveryContact          Contact         `json:"deliveryContact"`
	Package                  Package         `json:"package"`
	Status                   string          `json:"status"`
	Priority                 string          `json:"priority"`
	SpecialInstructions      string          `json:"specialInstructions,omitempty"`
	Price                    float64         `json:"price"`
	DistanceKm               float64         `json:"distanceKm"`
	EstimatedDurationMinutes int             `json:"estimatedDurationMinutes"`
	Timeline                 []TimelineEntry `json:"timeline"`
	Proof                    *Proof          `json:"proof,omitempty"`
	Rating                   *Rating         `json:"rating,omitempty"`
	EstimatedPickupTime      *time.Time      `json:"estimatedPickupTime,omitempty"`
	ActualPickupTime         *time.Time      `json:"actualPickupTime,omitempty"`
	EstimatedDeliveryTime    *time.Time      `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime       *time.Time      `json:"actualDeliveryTime,omitempty"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

type DeliveryResult struct {
	Delivery Delivery `json:"delivery"`
	Warnings []string `json:"warnings,omitempty"`
}

type DeliverySummary struct {
	ID           string    `json:"id"`
	TrackingCode string    `json:"trackingCode"`
	ClientID     string    `json:"clientId"`
	DriverID     *string   `json:"driverId,omitempty"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	PickupCity   string    `json:"pickupCity"`
	DeliveryCity string    `json:"deliveryCity"`
	Price        float64   `json:"price"`
	DistanceKm   float64   `json:"distanceKm"`
	RatingScore  *int      `json:"ratingScore,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type DeliveryPage struct {
	Items []DeliverySummary `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Pages int               `json:"pages"`
}

type User struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Role            string  `json:"role"`
	VehicleType     string  `json:"vehicleType,omitempty"`
	VehiclePlate    string  `json:"vehiclePlate,omitempty"`
	CurrentLocation *Point  `json:"currentLocation,omitempty"`
	Available       bool    `json:"available"`
	Active          bool    `json:"active"`
	Rating          float64 `json:"rating"`
	RatedDeliveries int     `json:"ratedDeliveries"`
	TotalDeliveries int     `json:"totalDeliveries"`
}

type UserPage struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

type Driver struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone"`
	VehicleType     string   `json:"vehicleType,omitempty"`
	VehiclePlate    string   `json:"vehiclePlate,omitempty"`
	CurrentLocation *Point   `json:"currentLocation,omitempty"`
	Rating          float64  `json:"rating"`
	RatedDeliveries int      `json:"ratedDeliveries"`
	TotalDeliveries int      `json:"totalDeliveries"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
}

func (r NewDelivery) toDetails() (delivery.Details, error) {
	pickup, pickupErr := r.PickupAddress.toDomain()
	dest, destErr := r.DeliveryAddress.toDomain()
	sender, senderErr := delivery.NewContact(r.PickupContact.Name, r.PickupContact.Phone, r.PickupContact.Email)
	recipient, recipientErr := delivery.NewContact(r.DeliveryContact.Name, r.DeliveryContact.Phone, r.DeliveryContact.Email)
	pkg, pkgErr := delivery.NewPackageDetails(
		r.Package.Description,
		r.Package.WeightKg,
		delivery.Dimensions{Length: r.Package.LengthCm, Width: r.Package.WidthCm, Height: r.Package.HeightCm},
		r.Package.Value,
		r.Package.Fragile,
	)
	priority, priorityErr := delivery.ParsePriority(r.Priority)

	if err := errors.Join(pickupErr, destErr, senderErr, recipientErr, pkgErr, priorityErr); err != nil {
		return delivery.Details{}, err
	}

	return delivery.Details{
		PickupAddress:            pickup,
		DeliveryAddress:          dest,
		PickupContact:            sender,
		DeliveryContact:          recipient,
		Package:                  pkg,
		Priority:                 priority,
		SpecialInstructions:      r.SpecialInstructions,
		Price:                    r.Price,
		DistanceKm:               r.DistanceKm,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		EstimatedPickupTime:      r.EstimatedPickupTime,
		EstimatedDeliveryTime:    r.EstimatedDeliveryTime,
	}, nil
}

func (a Address) toDomain() (delivery.Address, error) {
	point, err := a.Location.toDomain()
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.NewAddress(a.Street, a.City, a.State, a.ZipCode, a.Country, point)
}

func fromAddress(a delivery.Address) Address {
	return Address{
		Street:   a.Street(),
		City:     a.City(),
		State:    a.State(),
		ZipCode:  a.ZipCode(),
		Country:  a.Country(),
		Location: fromPoint(a.Coordinates()),
	}
}

func fromContact(c delivery.Contact) Contact {
	return Contact{Name: c.Name(), Phone: c.Phone(), Email: c.Email()}
}

func fromPoint(p kernel.GeoPoint) Point {
	return Point{Longitude: p.Longitude(), Latitude: p.Latitude()}
}

func fromOptionalPoint(p *kernel.GeoPoint) *Point {
	if p == nil {
		return nil
	}
	out := fromPoint(*p)
	return &out
}

func fromDelivery(d *delivery.Delivery) Delivery {
	pkg := d.PackageDetails()
	out := Delivery{
		ID:              d.ID().String(),
		TrackingCode:    d.TrackingCode().String(),
		ClientID:        d.ClientID().String(),
		PickupAddress:   fromAddress(d.PickupAddress()),
		DeliveryAddress: fromAddress(d.DeliveryAddress()),
		PickupContact:   fromContact(d.PickupContact()),
		DeliveryContact: fromContact(d.DeliveryContact()),
		Package: Package{
			Description: pkg.Description(),
			WeightKg:    pkg.WeightKg(),
			LengthCm:    pkg.Dimensions().Length,
			WidthCm:     pkg.Dimensions().Width,
			HeightCm:    pkg.Dimensions().Height,
			Value:       pkg.Value(),
			Fragile:     pkg.Fragile(),
		},
		Status:                   d.Status().String(),
		Priority:                 d.Priority().String(),
		SpecialInstructions:      d.SpecialInstructions(),
		Price:                    d.Price(),
		DistanceKm:               d.DistanceKm(),
		EstimatedDurationMinutes: d.EstimatedDurationMinutes(),
		EstimatedPickupTime:      d.EstimatedPickupTime(),
		ActualPickupTime:         d.ActualPickupTime(),
		EstimatedDeliveryTime:    d.EstimatedDeliveryTime(),
		ActualDeliveryTime:       d.ActualDeliveryTime(),
		CreatedAt:                d.CreatedAt(),
		UpdatedAt:                d.UpdatedAt(),
	}

	if id := d.DriverID(); id != nil {
		s := id.String()
		out.DriverID = &s
	}

	timeline := d.Timeline()
	out.Timeline = make([]TimelineEntry, len(timeline))
	for i, e := range timeline {
		out.Timeline[i] = TimelineEntry{
			Status:     e.Status().String(),
			OccurredAt: e.OccurredAt(),
			Location:   fromOptionalPoint(e.Location()),
			Note:       e.Note(),
		}
	}

	if p := d.Proof(); p != nil {
		out.Proof = &Proof{
			RecipientName: p.RecipientName(),
			SignatureRef:  p.SignatureRef(),
			PhotoRef:      p.PhotoRef(),
			Note:          p.Note(),
			CapturedAt:    p.CapturedAt(),
		}
	}
	if r := d.Rating(); r != nil {
		out.Rating = &Rating{Score: r.Score(), Comment: r.Comment(), RatedAt: r.RatedAt()}
	}

	return out
}

func fromPage(p queries.DeliveryPage) DeliveryPage {
	items := make([]DeliverySummary, len(p.Items))
	for i, s := range p.Items {
		items[i] = DeliverySummary{
			ID:           s.ID.String(),
			TrackingCode: s.TrackingCode,
			ClientID:     s.ClientID.String(),
			Status:       s.Status,
			Priority:     s.Priority,
			PickupCity:   s.PickupCity,
			DeliveryCity: s.DeliveryCity,
			Price:        s.Price,
			DistanceKm:   s.DistanceKm,
			RatingScore:  s.RatingScore,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		}
		if s.DriverID != nil {
			id := s.DriverID.String()
			items[i].DriverID = &id
		}
	}
	return DeliveryPage{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit, Pages: p.Pages}
}

func fromUser(u *user.User) User {
	out := User{
		ID:              u.ID().String(),
		Name:            u.Name(),
		Email:           u.Email(),
		Phone:           u.Phone(),
		Role:            u.Role().String(),
		CurrentLocation: fromOptionalPoint(u.CurrentLocation()),
		Available:       u.IsAvailable(),
		Active:          u.IsActive(),
		Rating:          u.Reputation().Rating(),
		RatedDeliveries: u.Reputation().RatedDeliveries(),
		TotalDeliveries: u.TotalDeliveries(),
	}
	if v := u.Vehicle(); v != nil {
		out.VehicleType = string(v.Type())
		out.VehiclePlate = v.Plate()
	}
	return out
}

func fromDriverSummary(s queries.DriverSummary) Driver {
	out := Driver{
		ID:              s.ID.String(),
		Name:            s.Name,
		Phone:           s.Phone,
		VehicleType:     s.VehicleType,
		VehiclePlate:    s.VehiclePlate,
		Rating:          s.Rating,
		RatedDeliveries: s.RatedDeliveries,
		TotalDeliveries: s.TotalDeliveries,
		DistanceKm:      s.DistanceKm,
	}
	if s.Location != nil {
		out.CurrentLocation = &Point{Longitude: s.Location.Longitude, Latitude: s.Location.Latitude}
	}
	return out
}

func fromUserPage(p queries.UserPage) UserPage {
	items := make([]User, len(p.Items))
	for i, s := range p.Items {
		items[i] = User{
			ID:              s.ID.String(),
			Name:            s.Name,
			Email:           s.Email,
			Phone:           s.Phone,
			Role:            s.Role,
			VehicleType:     s.VehicleType,
			VehiclePlate:    s.VehiclePlate,
			Available:       s.Available,
			Active:          s.Active,
			Rating:          s.Rating,
			RatedDeliveries: s.RatedDeliveries,
			TotalDeliveries: s.TotalDeliveries,
		}
		if s.Location != nil {
			items[i].CurrentLocation = &Point{Longitude: s.Location.Longitude, Latitude: s.Location.Latitude}
		}
	}
	return UserPage{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit, Pages: p.Pages}
}
