package commands

import (
	"errors"

	"parceltrack/internal/pkg/guard"
)

var ErrRecomputeReputationsCommandIsNotConstructed = errors.New(
	"RecomputeReputationsCommand must be created via NewRecomputeReputationsCommand constructor",
)

// RecomputeReputationsCommand triggers a full reconciliation of driver reputations.
// This is a parameterless command issued by the scheduler.
type RecomputeReputationsCommand struct {
	guard guard.ConstructorGuard
}

func NewRecomputeReputationsCommand() RecomputeReputationsCommand {
	return RecomputeReputationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *RecomputeReputationsCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeReputationsCommandIsNotConstructed)
}
