package queries

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackByCodeQueryHandler serves the public tracking view. Views are read through
// the tracking cache when one is configured; cache failures fall back to the
// database and are only logged.
type TrackByCodeQueryHandler struct {
	db     *gorm.DB
	cache  ports.TrackingCache
	logger *slog.Logger
}

func NewTrackByCodeQueryHandler(db *gorm.DB, cache ports.TrackingCache, logger *slog.Logger) TrackByCodeQueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return TrackByCodeQueryHandler{
		db:     db,
		cache:  cache,
		logger: logger.With("component", "track_by_code"),
	}
}

func (h TrackByCodeQueryHandler) Handle(ctx context.Context, query TrackByCodeQuery) (TrackingView, error) {
	if err := query.Validate(); err != nil {
		return TrackingView{}, err
	}

	code := query.Code().String()

	if view, ok := h.fromCache(ctx, code); ok {
		return view, nil
	}

	view, err := h.load(ctx, code)
	if err != nil {
		return TrackingView{}, err
	}

	h.toCache(ctx, code, view)
	return view, nil
}

func (h TrackByCodeQueryHandler) fromCache(ctx context.Context, code string) (TrackingView, bool) {
	if h.cache == nil {
		return TrackingView{}, false
	}

	payload, found, err := h.cache.Get(ctx, code)
	if err != nil {
		metrics.TrackingCacheLookupsTotal.WithLabelValues("error").Inc()
		h.logger.WarnContext(ctx, "tracking cache read failed", "trackingCode", code, "error", err)
		return TrackingView{}, false
	}
	if !found {
		metrics.TrackingCacheLookupsTotal.WithLabelValues("miss").Inc()
		return TrackingView{}, false
	}

	var view TrackingView
	if err = json.Unmarshal(payload, &view); err != nil {
		metrics.TrackingCacheLookupsTotal.WithLabelValues("error").Inc()
		h.logger.WarnContext(ctx, "tracking cache entry is corrupt", "trackingCode", code, "error", err)
		return TrackingView{}, false
	}

	metrics.TrackingCacheLookupsTotal.WithLabelValues("hit").Inc()
	return view, true
}

func (h TrackByCodeQueryHandler) toCache(ctx context.Context, code string, view TrackingView) {
	if h.cache == nil {
		return
	}

	// A write committed after the load has already evicted this code, so the
	// loaded view must not be stored behind that eviction.
	current, err := h.updatedAt(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "tracking view freshness check failed", "trackingCode", code, "error", err)
		return
	}
	if !current.Equal(view.UpdatedAt) {
		h.logger.DebugContext(ctx, "tracking view changed while loading, not cached", "trackingCode", code)
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		h.logger.WarnContext(ctx, "tracking view encoding failed", "trackingCode", code, "error", err)
		return
	}
	if err = h.cache.Set(ctx, code, payload); err != nil {
		h.logger.WarnContext(ctx, "tracking cache write failed", "trackingCode", code, "error", err)
	}
}

func (h TrackByCodeQueryHandler) updatedAt(ctx context.Context, code string) (time.Time, error) {
	var updatedAt time.Time
	err := h.db.WithContext(ctx).
		Raw(`SELECT updated_at FROM deliveries WHERE tracking_code = ?`, code).
		Row().
		Scan(&updatedAt)
	return updatedAt, err
}

// trackingRow is the flat result of the delivery and driver join.
type trackingRow struct {
	ID           uuid.UUID
	TrackingCode string
	Status       string
	Priority     string

	PickupStreet  string
	PickupCity    string
	PickupState   string
	PickupZipCode string
	PickupCountry string
	PickupLon     float64
	PickupLat     float64

	DeliveryStreet  string
	DeliveryCity    string
	DeliveryState   string
	DeliveryZipCode string
	DeliveryCountry string
	DeliveryLon     float64
	DeliveryLat     float64

	PickupContactName   string
	DeliveryContactName string

	PackageDescription string
	PackageWeightKg    float64
	PackageLengthCm    float64
	PackageWidthCm     float64
	PackageHeightCm    float64
	PackageValue       float64
	PackageFragile     bool

	ProofRecipientName *string
	ProofSignatureRef  *string
	ProofPhotoRef      *string
	ProofNote          *string
	ProofCapturedAt    *time.Time

	EstimatedPickupTime   *time.Time
	ActualPickupTime      *time.Time
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time

	DriverName        *string
	DriverPhone       *string
	DriverVehicleType *string
	DriverLon         *float64
	DriverLat         *float64
}

func (h TrackByCodeQueryHandler) load(ctx context.Context, code string) (TrackingView, error) {
	var rows []trackingRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id, d.tracking_code, d.status, d.priority,
			d.pickup_street, d.pickup_city, d.pickup_state, d.pickup_zip_code, d.pickup_country,
			d.pickup_lon, d.pickup_lat,
			d.delivery_street, d.delivery_city, d.delivery_state, d.delivery_zip_code, d.delivery_country,
			d.delivery_lon, d.delivery_lat,
			d.pickup_contact_name, d.delivery_contact_name,
			d.package_description, d.package_weight_kg, d.package_length_cm, d.package_width_cm,
			d.package_height_cm, d.package_value, d.package_fragile,
			d.proof_recipient_name, d.proof_signature_ref, d.proof_photo_ref, d.proof_note, d.proof_captured_at,
			d.estimated_pickup_time, d.actual_pickup_time, d.estimated_delivery_time, d.actual_delivery_time,
			d.created_at, d.updated_at,
			u.name AS driver_name, u.phone AS driver_phone, u.vehicle_type AS driver_vehicle_type,
			u.location_lon AS driver_lon, u.location_lat AS driver_lat
		FROM deliveries d
		LEFT JOIN users u ON u.id = d.driver_id
		WHERE d.tracking_code = ?
	`, code).Scan(&rows).Error
	if err != nil {
		return TrackingView{}, err
	}
	if len(rows) == 0 {
		return TrackingView{}, errs.NewObjectNotFoundError("trackingCode", code)
	}
	row := rows[0]

	timeline, err := h.loadTimeline(ctx, row.ID)
	if err != nil {
		return TrackingView{}, err
	}

	return row.toView(timeline), nil
}

func (h TrackByCodeQueryHandler) loadTimeline(ctx context.Context, deliveryID uuid.UUID) ([]TimelineEntryView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, occurred_at, location_lon, location_lat, note
		FROM delivery_timeline
		WHERE delivery_id = ?
		ORDER BY seq
	`, deliveryID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timeline := make([]TimelineEntryView, 0)
	for rows.Next() {
		var (
			entry    TimelineEntryView
			lon, lat *float64
			note     *string
		)
		if err = rows.Scan(&entry.Status, &entry.OccurredAt, &lon, &lat, &note); err != nil {
			return nil, err
		}
		entry.OccurredAt = entry.OccurredAt.UTC()
		entry.Location = pointView(lon, lat)
		if note != nil {
			entry.Note = *note
		}
		timeline = append(timeline, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(timeline) == 0 {
		return nil, errors.New("delivery has no timeline")
	}

	return timeline, nil
}

func (r trackingRow) toView(timeline []TimelineEntryView) TrackingView {
	view := TrackingView{
		TrackingCode: r.TrackingCode,
		Status:       r.Status,
		Priority:     r.Priority,
		PickupAddress: AddressView{
			Street: r.PickupStreet, City: r.PickupCity, State: r.PickupState,
			ZipCode: r.PickupZipCode, Country: r.PickupCountry,
			Location: PointView{Longitude: r.PickupLon, Latitude: r.PickupLat},
		},
		DeliveryAddress: AddressView{
			Street: r.DeliveryStreet, City: r.DeliveryCity, State: r.DeliveryState,
			ZipCode: r.DeliveryZipCode, Country: r.DeliveryCountry,
			Location: PointView{Longitude: r.DeliveryLon, Latitude: r.DeliveryLat},
		},
		SenderName:    r.PickupContactName,
		RecipientName: r.DeliveryContactName,
		Package: PackageView{
			Description: r.PackageDescription,
			WeightKg:    r.PackageWeightKg,
			LengthCm:    r.PackageLengthCm,
			WidthCm:     r.PackageWidthCm,
			HeightCm:    r.PackageHeightCm,
			Value:       r.PackageValue,
			Fragile:     r.PackageFragile,
		},
		Timeline:              timeline,
		EstimatedPickupTime:   utc(r.EstimatedPickupTime),
		ActualPickupTime:      utc(r.ActualPickupTime),
		EstimatedDeliveryTime: utc(r.EstimatedDeliveryTime),
		ActualDeliveryTime:    utc(r.ActualDeliveryTime),
		CreatedAt:             r.CreatedAt.UTC(),
		UpdatedAt:             r.UpdatedAt.UTC(),
	}

	if r.ProofRecipientName != nil && r.ProofCapturedAt != nil {
		view.Proof = &ProofView{
			RecipientName: *r.ProofRecipientName,
			SignatureRef:  deref(r.ProofSignatureRef),
			PhotoRef:      deref(r.ProofPhotoRef),
			Note:          deref(r.ProofNote),
			CapturedAt:    r.ProofCapturedAt.UTC(),
		}
	}

	if r.DriverName != nil {
		view.Driver = &PublicDriverView{
			Name:            *r.DriverName,
			Phone:           deref(r.DriverPhone),
			VehicleType:     deref(r.DriverVehicleType),
			CurrentLocation: pointView(r.DriverLon, r.DriverLat),
		}
	}

	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
