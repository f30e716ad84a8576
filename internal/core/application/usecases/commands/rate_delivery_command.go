package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

// RateDeliveryCommand carries the client's 1 to 5 score for a completed delivery.
type RateDeliveryCommand struct {
	actor      user.Actor
	deliveryID kernel.UUID
	score      int
	comment    string

	guard guard.ConstructorGuard
}

func NewRateDeliveryCommand(actor user.Actor, deliveryID kernel.UUID, score int, comment string) (RateDeliveryCommand, error) {
	var scoreErr error
	if score < delivery.ScoreMin || score > delivery.ScoreMax {
		scoreErr = errs.NewValueIsOutOfRangeError("score", score, delivery.ScoreMin, delivery.ScoreMax)
	}

	if err := errors.Join(actor.Validate(), deliveryID.Validate(), scoreErr); err != nil {
		return RateDeliveryCommand{}, err
	}

	return RateDeliveryCommand{
		actor:      actor,
		deliveryID: deliveryID,
		score:      score,
		comment:    strings.TrimSpace(comment),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}

func (c RateDeliveryCommand) Actor() user.Actor {
	return c.actor
}

func (c RateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c RateDeliveryCommand) Score() int {
	return c.score
}

func (c RateDeliveryCommand) Comment() string {
	return c.comment
}
