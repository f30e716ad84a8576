package deliveryrepo

import (
	"context"
	"errors"
	"fmt"

	"parceltrack/internal/adapters/out/postgres/pgerrs"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db: db,
	}
}

// Add saves a new delivery and its timeline.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err, TrackingCodeIndex) {
			return errs.NewConflictErrorWithCause("trackingCode", dto.TrackingCode, err)
		}
		return err
	}

	if err := r.insertTimeline(ctx, aggregate); err != nil {
		return err
	}

	return nil
}

// Update saves an existing delivery if nobody changed it since it was loaded, then
// appends the new timeline entries.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate)
	}

	if err := r.insertTimeline(ctx, aggregate); err != nil {
		return err
	}

	return nil
}

// Get retrieves a delivery by ID.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a delivery by ID and locks its row until the transaction ends.
func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ListDriverRatingScores returns the scores of every rated delivery of the driver.
func (r *GormDeliveryRepository) ListDriverRatingScores(ctx context.Context, driverID kernel.UUID) ([]int, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var scores []int
	if err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("driver_id = ? AND rating_score IS NOT NULL", driverID.Bytes()).
		Order("created_at").
		Pluck("rating_score", &scores).Error; err != nil {
		return nil, err
	}

	return scores, nil
}

// ListRatedDriverIDs returns every driver with at least one rated delivery.
func (r *GormDeliveryRepository) ListRatedDriverIDs(ctx context.Context) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Distinct().
		Where("driver_id IS NOT NULL AND rating_score IS NOT NULL").
		Pluck("driver_id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, b := range raw {
		id, err := kernel.UUIDFromBytes(b[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *GormDeliveryRepository) get(ctx context.Context, query *gorm.DB, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("delivery_id = ?", dto.ID).
		Order("seq").
		Find(&dto.Timeline).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDeliveryRepository) insertTimeline(ctx context.Context, aggregate *delivery.Delivery) error {
	from, entries := aggregate.UnsavedTimeline()
	if len(entries) == 0 {
		return nil
	}

	rows := timelineFromDomain(aggregate.ID().Bytes(), from, entries)
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *GormDeliveryRepository) missingOrStale(ctx context.Context, aggregate *delivery.Delivery) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}

	return errs.NewVersionIsInvalidError(
		"delivery",
		fmt.Errorf("version %d of %s is stale", aggregate.Version(), aggregate.ID()),
	)
}
