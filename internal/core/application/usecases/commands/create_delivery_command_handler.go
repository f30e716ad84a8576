package commands

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultCodeAttempts        = 5
	DefaultCodeRetryInterval   = 20 * time.Millisecond
	defaultCodeRetryMaxBackoff = time.Second
)

// CodeRetryPolicy bounds how often a tracking code is regenerated after a collision.
type CodeRetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func DefaultCodeRetryPolicy() CodeRetryPolicy {
	return CodeRetryPolicy{MaxAttempts: DefaultCodeAttempts, InitialInterval: DefaultCodeRetryInterval}
}

func (p CodeRetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = DefaultCodeAttempts
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	b.MaxInterval = defaultCodeRetryMaxBackoff
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx) //nolint:gosec // attempts >= 1
}

// CreateDeliveryCommandHandler persists new deliveries with a fresh tracking code.
// Codes are probabilistic: a unique-index collision rolls the attempt back and a
// new code is tried with exponential backoff. Exhausting the attempts surfaces the
// ConflictError of the last collision.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	codes      delivery.CodeGenerator
	retry      CodeRetryPolicy
}

func NewCreateDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	codes delivery.CodeGenerator,
	retry CodeRetryPolicy,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		codes:      codes,
		retry:      retry,
	}
}

// Handle books the delivery in status pending. Drivers cannot book deliveries.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}

	actor := cmd.Actor()
	if actor.Role() == user.RoleDriver {
		return DeliveryResult{}, errs.NewNotAuthorizedError("create delivery", actor.ID().String())
	}

	var created *delivery.Delivery
	attempt := func() error {
		d, err := h.createOnce(ctx, actor, cmd.Details())
		if errors.Is(err, errs.ErrConflict) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		created = d
		return nil
	}

	if err := backoff.Retry(attempt, h.retry.backOff(ctx)); err != nil {
		return DeliveryResult{}, err
	}

	return DeliveryResult{Delivery: created}, nil
}

func (h CreateDeliveryCommandHandler) createOnce(
	ctx context.Context,
	actor user.Actor,
	details delivery.Details,
) (*delivery.Delivery, error) {
	ts := now()
	code, err := h.codes.Generate(ts)
	if err != nil {
		return nil, err
	}

	d, err := delivery.NewDelivery(kernel.NewUUID(), code, actor.ID(), details, ts)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}
