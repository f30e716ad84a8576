// Package ports defines the contracts between the application core and the
// infrastructure: repositories, the unit of work, and the outbound notifier
// and tracking cache.
package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates,
// including their timeline, proof and rating.
type DeliveryRepository interface {
	// Add persists a new delivery with its creation timeline entry.
	// Returns errs.ConflictError when the tracking code is already taken.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery and inserts the timeline
	// entries appended since it was loaded. Existing entries are never rewritten.
	// Returns errs.VersionIsInvalidError when the row changed since it was loaded.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery by its identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate is Get with a row lock held until the transaction ends.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// ListDriverRatingScores returns the scores of every rated delivery of the driver.
	ListDriverRatingScores(ctx context.Context, driverID kernel.UUID) ([]int, error)

	// ListRatedDriverIDs returns the drivers that have at least one rated delivery.
	ListRatedDriverIDs(ctx context.Context) ([]kernel.UUID, error)
}
