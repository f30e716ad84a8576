// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"math"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PointView is a position in read models.
type PointView struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func pointView(lon, lat *float64) *PointView {
	if lon == nil || lat == nil {
		return nil
	}
	return &PointView{Longitude: *lon, Latitude: *lat}
}

type AddressView struct {
	Street   string    `json:"street"`
	City     string    `json:"city"`
	State    string    `json:"state,omitempty"`
	ZipCode  string    `json:"zipCode,omitempty"`
	Country  string    `json:"country"`
	Location PointView `json:"location"`
}

type PackageView struct {
	Description string  `json:"description"`
	WeightKg    float64 `json:"weightKg"`
	LengthCm    float64 `json:"lengthCm"`
	WidthCm     float64 `json:"widthCm"`
	HeightCm    float64 `json:"heightCm"`
	Value       float64 `json:"value"`
	Fragile     bool    `json:"fragile"`
}

type TimelineEntryView struct {
	Status     string     `json:"status"`
	OccurredAt time.Time  `json:"occurredAt"`
	Location   *PointView `json:"location,omitempty"`
	Note       string     `json:"note,omitempty"`
}

type ProofView struct {
	RecipientName string    `json:"recipientName"`
	SignatureRef  string    `json:"signatureRef,omitempty"`
	PhotoRef      string    `json:"photoRef,omitempty"`
	Note          string    `json:"note,omitempty"`
	CapturedAt    time.Time `json:"capturedAt"`
}

// PublicDriverView is what an anonymous tracker may learn about the driver.
type PublicDriverView struct {
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	VehicleType     string     `json:"vehicleType,omitempty"`
	CurrentLocation *PointView `json:"currentLocation,omitempty"`
}

// TrackingView is the redacted public projection of a delivery. It never carries
// the client's identity, internal ids or driver internals.
type TrackingView struct {
	TrackingCode    string      `json:"trackingCode"`
	Status          string      `json:"status"`
	Priority        string      `json:"priority"`
	PickupAddress   AddressView `json:"pickupAddress"`
	DeliveryAddress AddressView `json:"deliveryAddress"`
	SenderName      string      `json:"senderName"`
	RecipientName   string      `json:"recipientName"`
	Package         PackageView `json:"package"`

	Timeline []TimelineEntryView `json:"timeline"`
	Proof    *ProofView          `json:"proof,omitempty"`
	Driver   *PublicDriverView   `json:"driver,omitempty"`

	EstimatedPickupTime   *time.Time `json:"estimatedPickupTime,omitempty"`
	ActualPickupTime      *time.Time `json:"actualPickupTime,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actualDeliveryTime,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// DeliverySummary is one row of a delivery listing.
type DeliverySummary struct {
	ID           kernel.UUID
	TrackingCode string
	ClientID     kernel.UUID
	DriverID     *kernel.UUID
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

// DeliveryPage is a page of deliveries, newest first.
type DeliveryPage struct {
	Items []DeliverySummary
	Total int64
	Page  int
	Limit int
	Pages int
}

// UserSummary is a user directory row. It never carries credentials.
type UserSummary struct {
	ID              kernel.UUID
	Name            string
	Email           string
	Phone           string
	Role            string
	VehicleType     string
	VehiclePlate    string
	Location        *PointView
	Available       bool
	Active          bool
	Rating          float64
	RatedDeliveries int
	TotalDeliveries int
	CreatedAt       time.Time
}

// UserPage is a page of users ordered by name.
type UserPage struct {
	Items []UserSummary
	Total int64
	Page  int
	Limit int
	Pages int
}

// Pagination is a normalized page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination applies the defaults and caps the limit at MaxLimit.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) pages(total int64) int {
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

// DriverSummary is an available driver as seen by dispatchers.
type DriverSummary struct {
	ID              kernel.UUID
	Name            string
	Phone           string
	VehicleType     string
	VehiclePlate    string
	Location        *PointView
	Rating          float64
	RatedDeliveries int
	TotalDeliveries int
	// DistanceKm is set only for proximity searches.
	DistanceKm *float64
}
