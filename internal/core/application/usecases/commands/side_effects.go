package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/metrics"
)

const (
	statusUpdateTitle     = "Delivery Update"
	driverAssignmentTitle = "New Delivery Assignment"
)

// DeliveryResult is what a lifecycle command returns after commit. Warnings list
// post-commit effects that failed; the change itself is durable.
type DeliveryResult struct {
	Delivery *delivery.Delivery
	Warnings []string
}

// SideEffects runs the best-effort work that follows a committed lifecycle change:
// notifications, tracking cache eviction and metrics. A nil notifier or cache
// disables that effect.
type SideEffects struct {
	notifier ports.Notifier
	cache    ports.TrackingCache
	logger   *slog.Logger
}

func NewSideEffects(notifier ports.Notifier, cache ports.TrackingCache, logger *slog.Logger) *SideEffects {
	if logger == nil {
		logger = slog.Default()
	}
	return &SideEffects{
		notifier: notifier,
		cache:    cache,
		logger:   logger.With("component", "side_effects"),
	}
}

// statusNotification tells the client about the status the delivery just entered.
func statusNotification(d *delivery.Delivery) ports.Notification {
	return ports.Notification{
		RecipientID:  d.ClientID(),
		Title:        statusUpdateTitle,
		Body:         d.Status().Message(),
		DeliveryID:   d.ID(),
		TrackingCode: d.TrackingCode().String(),
		Status:       d.Status().String(),
	}
}

// assignmentNotification tells the driver about a new job.
func assignmentNotification(d *delivery.Delivery) ports.Notification {
	return ports.Notification{
		RecipientID:  *d.DriverID(),
		Title:        driverAssignmentTitle,
		Body:         "You have been assigned a new delivery to " + d.DeliveryAddress().City(),
		DeliveryID:   d.ID(),
		TrackingCode: d.TrackingCode().String(),
		Status:       d.Status().String(),
	}
}

// afterCommit evicts the cached tracking view, records the status metric and sends
// the notifications. It never fails; problems come back as warnings.
func (s *SideEffects) afterCommit(ctx context.Context, d *delivery.Delivery, notifications ...ports.Notification) DeliveryResult {
	result := DeliveryResult{Delivery: d}
	if s == nil {
		return result
	}

	metrics.DeliveryTransitionsTotal.WithLabelValues(d.Status().String()).Inc()
	result.Warnings = s.evict(ctx, d, result.Warnings)

	if s.notifier == nil {
		return result
	}
	for _, n := range notifications {
		if err := s.notifier.Notify(ctx, n); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			s.logger.WarnContext(ctx, "notification failed",
				"recipientId", n.RecipientID.String(), "title", n.Title, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("notification %q to %s failed", n.Title, n.RecipientID))
		}
	}
	return result
}

// evictOnly drops the cached tracking view without notifying anyone.
func (s *SideEffects) evictOnly(ctx context.Context, d *delivery.Delivery) DeliveryResult {
	result := DeliveryResult{Delivery: d}
	if s != nil {
		result.Warnings = s.evict(ctx, d, nil)
	}
	return result
}

func (s *SideEffects) evict(ctx context.Context, d *delivery.Delivery, warnings []string) []string {
	if s.cache == nil {
		return warnings
	}
	if err := s.cache.Delete(ctx, d.TrackingCode().String()); err != nil {
		s.logger.WarnContext(ctx, "tracking cache eviction failed",
			"trackingCode", d.TrackingCode().String(), "error", err)
		return append(warnings, "tracking cache could not be refreshed")
	}
	return warnings
}

func now() time.Time {
	return time.Now().UTC()
}
