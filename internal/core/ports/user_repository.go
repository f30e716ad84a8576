package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for the local user projection.
type UserRepository interface {
	// Add persists a new user.
	// Returns errs.ConflictError when the email is already registered.
	Add(ctx context.Context, aggregate *user.User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, aggregate *user.User) error

	// Get retrieves a user by identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetForUpdate is Get with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*user.User, error)

	// IncrementTotalDeliveries atomically adds one completed delivery to the driver's counter.
	IncrementTotalDeliveries(ctx context.Context, driverID kernel.UUID) error
}
