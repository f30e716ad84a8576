package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// RateDeliveryCommandHandler stores the rating and folds it into the driver's
// reputation. The driver row is locked before the scores are re-read, so two
// ratings for the same driver cannot both compute from a stale set.
type RateDeliveryCommandHandler struct {
	uowFactory  UoWFactory
	calculator  services.ReputationCalculator
	sideEffects *SideEffects
}

func NewRateDeliveryCommandHandler(uowFactory UoWFactory, sideEffects *SideEffects) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{
		uowFactory:  uowFactory,
		calculator:  services.NewReputationCalculator(),
		sideEffects: sideEffects,
	}
}

func (h RateDeliveryCommandHandler) Handle(ctx context.Context, cmd RateDeliveryCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return DeliveryResult{}, err
	}

	if err = d.Rate(cmd.Actor(), cmd.Score(), cmd.Comment(), now()); err != nil {
		return DeliveryResult{}, err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return DeliveryResult{}, err
	}

	if err = recomputeReputation(ctx, h.calculator, deliveryRepo, uow.UserRepository(), *d.DriverID()); err != nil {
		return DeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryResult{}, err
	}

	return h.sideEffects.evictOnly(ctx, d), nil
}

// recomputeReputation locks the driver and rewrites its reputation from every
// stored score. Must run inside a transaction.
func recomputeReputation(
	ctx context.Context,
	calculator services.ReputationCalculator,
	deliveryRepo ports.DeliveryRepository,
	userRepo ports.UserRepository,
	driverID kernel.UUID,
) error {
	driver, err := userRepo.GetForUpdate(ctx, driverID)
	if err != nil {
		return err
	}

	scores, err := deliveryRepo.ListDriverRatingScores(ctx, driverID)
	if err != nil {
		return err
	}

	reputation, err := calculator.Calculate(scores)
	if err != nil {
		return err
	}

	if err = driver.ApplyReputation(reputation); err != nil {
		return err
	}

	return userRepo.Update(ctx, driver)
}
