package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
)

// Notification is a push message addressed to one user about one delivery.
type Notification struct {
	RecipientID  kernel.UUID
	Title        string
	Body         string
	DeliveryID   kernel.UUID
	TrackingCode string
	Status       string
}

// Notifier hands notifications to the delivery channel (push, email, ...).
// Delivery is best effort; callers treat errors as warnings.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
