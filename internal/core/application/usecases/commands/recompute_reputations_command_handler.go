package commands

import (
	"context"
	"errors"
	"fmt"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
)

// RecomputeReputationsCommandHandler rewrites the reputation of every driver with
// at least one rated delivery. Each driver is recomputed in its own transaction
// so one failure does not block the rest.
type RecomputeReputationsCommandHandler struct {
	uowFactory UoWFactory
	calculator services.ReputationCalculator
}

func NewRecomputeReputationsCommandHandler(uowFactory UoWFactory) RecomputeReputationsCommandHandler {
	return RecomputeReputationsCommandHandler{
		uowFactory: uowFactory,
		calculator: services.NewReputationCalculator(),
	}
}

// Handle returns how many drivers were recomputed. Per-driver failures are joined
// into the returned error.
func (h RecomputeReputationsCommandHandler) Handle(ctx context.Context, cmd RecomputeReputationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	driverIDs, err := h.uowFactory.Create().DeliveryRepository().ListRatedDriverIDs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		done int
		errs []error
	)
	for _, driverID := range driverIDs {
		if err = ctx.Err(); err != nil {
			return done, errors.Join(append(errs, err)...)
		}
		if err = h.recomputeOne(ctx, driverID); err != nil {
			errs = append(errs, fmt.Errorf("driver %s: %w", driverID, err))
			continue
		}
		done++
	}

	return done, errors.Join(errs...)
}

func (h RecomputeReputationsCommandHandler) recomputeOne(ctx context.Context, driverID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := recomputeReputation(ctx, h.calculator, uow.DeliveryRepository(), uow.UserRepository(), driverID); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
