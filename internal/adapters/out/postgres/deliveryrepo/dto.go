// Package deliveryrepo provides data transfer objects and mapping functions for delivery persistence.
// A delivery is stored as one row in "deliveries" plus one insert-only row per timeline
// entry in "delivery_timeline".
package deliveryrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// TrackingCodeIndex is the unique index that enforces tracking code uniqueness.
const TrackingCodeIndex = "idx_deliveries_tracking_code"

// DeliveryDTO represents the database structure for persisting delivery aggregates.
type DeliveryDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingCode string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_deliveries_tracking_code"`
	ClientID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`

	PickupAddress   AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	DeliveryAddress AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	PickupContact   ContactDTO `gorm:"embedded;embeddedPrefix:pickup_contact_"`
	DeliveryContact ContactDTO `gorm:"embedded;embeddedPrefix:delivery_contact_"`
	Package         PackageDTO `gorm:"embedded;embeddedPrefix:package_"`

	Status              string `gorm:"type:varchar(32);not null;index"`
	Priority            string `gorm:"type:varchar(16);not null;index"`
	SpecialInstructions string `gorm:"type:text"`

	Price                    float64 `gorm:"not null"`
	DistanceKm               float64 `gorm:"not null"`
	EstimatedDurationMinutes int     `gorm:"not null"`

	EstimatedPickupTime   *time.Time
	ActualPickupTime      *time.Time
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time

	Proof  ProofDTO  `gorm:"embedded;embeddedPrefix:proof_"`
	Rating RatingDTO `gorm:"embedded;embeddedPrefix:rating_"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null;default:0"`

	Timeline []TimelineEntryDTO `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// AddressDTO is an embedded postal address with its position.
type AddressDTO struct {
	Street  string `gorm:"type:varchar(255)"`
	City    string `gorm:"type:varchar(128)"`
	State   string `gorm:"type:varchar(128)"`
	ZipCode string `gorm:"type:varchar(32)"`
	Country string `gorm:"type:varchar(64)"`
	Lon     float64
	Lat     float64
}

type ContactDTO struct {
	Name  string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(64)"`
	Email string `gorm:"type:varchar(255)"`
}

type PackageDTO struct {
	Description string `gorm:"type:text"`
	WeightKg    float64
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	Value       float64
	Fragile     bool
}

// ProofDTO columns are all NULL until proof is captured.
type ProofDTO struct {
	RecipientName *string `gorm:"type:varchar(255)"`
	SignatureRef  *string `gorm:"type:text"`
	PhotoRef      *string `gorm:"type:text"`
	Note          *string `gorm:"type:text"`
	CapturedAt    *time.Time
}

// RatingDTO columns are all NULL until the client rates the delivery.
type RatingDTO struct {
	Score   *int    `gorm:"type:smallint;check:rating_score_range,rating_score BETWEEN 1 AND 5"`
	Comment *string `gorm:"type:text"`
	RatedAt *time.Time
}

// TimelineEntryDTO is one row of a delivery's audit trail. Rows are only ever inserted.
type TimelineEntryDTO struct {
	DeliveryID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int       `gorm:"primaryKey;autoIncrement:false"`
	Status      string    `gorm:"type:varchar(32);not null"`
	OccurredAt  time.Time `gorm:"not null"`
	LocationLon *float64
	LocationLat *float64
	Note        string `gorm:"type:text"`
}

func (TimelineEntryDTO) TableName() string {
	return "delivery_timeline"
}

// fromDomain converts a delivery aggregate to its row. Timeline rows are built
// separately by timelineFromDomain.
func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var driverID *uuid.UUID
	if id := d.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	pkg := d.PackageDetails()
	dims := pkg.Dimensions()

	dto := DeliveryDTO{
		ID:              d.ID().Bytes(),
		TrackingCode:    d.TrackingCode().String(),
		ClientID:        d.ClientID().Bytes(),
		DriverID:        driverID,
		PickupAddress:   addressFromDomain(d.PickupAddress()),
		DeliveryAddress: addressFromDomain(d.DeliveryAddress()),
		PickupContact:   contactFromDomain(d.PickupContact()),
		DeliveryContact: contactFromDomain(d.DeliveryContact()),
		Package: PackageDTO{
			Description: pkg.Description(),
			WeightKg:    pkg.WeightKg(),
			LengthCm:    dims.Length,
			WidthCm:     dims.Width,
			HeightCm:    dims.Height,
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
		Version:                  d.Version(),
	}

	if p := d.Proof(); p != nil {
		capturedAt := p.CapturedAt()
		dto.Proof = ProofDTO{
			RecipientName: ptr(p.RecipientName()),
			SignatureRef:  ptr(p.SignatureRef()),
			PhotoRef:      ptr(p.PhotoRef()),
			Note:          ptr(p.Note()),
			CapturedAt:    &capturedAt,
		}
	}

	if r := d.Rating(); r != nil {
		score, ratedAt := r.Score(), r.RatedAt()
		dto.Rating = RatingDTO{
			Score:   &score,
			Comment: ptr(r.Comment()),
			RatedAt: &ratedAt,
		}
	}

	return dto
}

func timelineFromDomain(deliveryID uuid.UUID, firstSeq int, entries []delivery.TimelineEntry) []TimelineEntryDTO {
	rows := make([]TimelineEntryDTO, 0, len(entries))
	for i, e := range entries {
		row := TimelineEntryDTO{
			DeliveryID: deliveryID,
			Seq:        firstSeq + i,
			Status:     e.Status().String(),
			OccurredAt: e.OccurredAt(),
			Note:       e.Note(),
		}
		if loc := e.Location(); loc != nil {
			lon, lat := loc.Longitude(), loc.Latitude()
			row.LocationLon = &lon
			row.LocationLat = &lat
		}
		rows = append(rows, row)
	}
	return rows
}

// toDomain rebuilds the aggregate using RestoreDelivery, which re-checks its invariants.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	code, err := delivery.ParseTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}

	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	details, err := detailsToDomain(dto)
	if err != nil {
		return nil, err
	}

	timeline, err := timelineToDomain(dto.Timeline)
	if err != nil {
		return nil, err
	}

	proof, err := proofToDomain(dto.Proof)
	if err != nil {
		return nil, err
	}

	rating, err := ratingToDomain(dto.Rating)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:                 id,
		TrackingCode:       code,
		ClientID:           clientID,
		DriverID:           driverID,
		Details:            details,
		Status:             status,
		Timeline:           timeline,
		Proof:              proof,
		Rating:             rating,
		ActualPickupTime:   dto.ActualPickupTime,
		ActualDeliveryTime: dto.ActualDeliveryTime,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	})
}

func detailsToDomain(dto DeliveryDTO) (delivery.Details, error) {
	pickup, err := addressToDomain(dto.PickupAddress)
	if err != nil {
		return delivery.Details{}, err
	}

	dest, err := addressToDomain(dto.DeliveryAddress)
	if err != nil {
		return delivery.Details{}, err
	}

	pickupContact, err := delivery.NewContact(dto.PickupContact.Name, dto.PickupContact.Phone, dto.PickupContact.Email)
	if err != nil {
		return delivery.Details{}, err
	}

	deliveryContact, err := delivery.NewContact(dto.DeliveryContact.Name, dto.DeliveryContact.Phone, dto.DeliveryContact.Email)
	if err != nil {
		return delivery.Details{}, err
	}

	pkg, err := delivery.NewPackageDetails(
		dto.Package.Description,
		dto.Package.WeightKg,
		delivery.Dimensions{Length: dto.Package.LengthCm, Width: dto.Package.WidthCm, Height: dto.Package.HeightCm},
		dto.Package.Value,
		dto.Package.Fragile,
	)
	if err != nil {
		return delivery.Details{}, err
	}

	priority, err := delivery.ParsePriority(dto.Priority)
	if err != nil {
		return delivery.Details{}, err
	}

	distance := dto.DistanceKm
	minutes := dto.EstimatedDurationMinutes

	return delivery.Details{
		PickupAddress:            pickup,
		DeliveryAddress:          dest,
		PickupContact:            pickupContact,
		DeliveryContact:          deliveryContact,
		Package:                  pkg,
		Priority:                 priority,
		SpecialInstructions:      dto.SpecialInstructions,
		Price:                    dto.Price,
		DistanceKm:               &distance,
		EstimatedDurationMinutes: &minutes,
		EstimatedPickupTime:      dto.EstimatedPickupTime,
		EstimatedDeliveryTime:    dto.EstimatedDeliveryTime,
	}, nil
}

func timelineToDomain(rows []TimelineEntryDTO) ([]delivery.TimelineEntry, error) {
	entries := make([]delivery.TimelineEntry, 0, len(rows))
	for _, row := range rows {
		status, err := delivery.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}

		var location *kernel.GeoPoint
		if row.LocationLon != nil && row.LocationLat != nil {
			point, pointErr := kernel.NewGeoPoint(*row.LocationLon, *row.LocationLat)
			if pointErr != nil {
				return nil, pointErr
			}
			location = &point
		}

		entry, err := delivery.RestoreTimelineEntry(status, row.OccurredAt, location, row.Note)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func proofToDomain(dto ProofDTO) (*delivery.Proof, error) {
	if dto.RecipientName == nil || dto.CapturedAt == nil {
		return nil, nil //nolint:nilnil // no proof captured yet
	}

	p, err := delivery.RestoreProof(*dto.RecipientName, deref(dto.SignatureRef), deref(dto.PhotoRef), deref(dto.Note), *dto.CapturedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ratingToDomain(dto RatingDTO) (*delivery.Rating, error) {
	if dto.Score == nil {
		return nil, nil //nolint:nilnil // not rated yet
	}

	var ratedAt time.Time
	if dto.RatedAt != nil {
		ratedAt = *dto.RatedAt
	}

	r, err := delivery.NewRating(*dto.Score, deref(dto.Comment), ratedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func addressFromDomain(a delivery.Address) AddressDTO {
	return AddressDTO{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		Country: a.Country(),
		Lon:     a.Coordinates().Longitude(),
		Lat:     a.Coordinates().Latitude(),
	}
}

func addressToDomain(dto AddressDTO) (delivery.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Lon, dto.Lat)
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.NewAddress(dto.Street, dto.City, dto.State, dto.ZipCode, dto.Country, point)
}

func contactFromDomain(c delivery.Contact) ContactDTO {
	return ContactDTO{
		Name:  c.Name(),
		Phone: c.Phone(),
		Email: c.Email(),
	}
}

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
