package delivery

import (
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
)

const (
	noteCreated            = "Delivery created"
	noteAssignedToDriver   = "Assigned to driver "
	noteCompletedWithProof = "Delivery completed with proof"
)

// TimelineEntry is one immutable record of the delivery's audit trail.
type TimelineEntry struct {
	status     Status
	occurredAt time.Time
	location   *kernel.GeoPoint
	note       string
}

// RestoreTimelineEntry rebuilds an entry read from storage.
func RestoreTimelineEntry(status Status, occurredAt time.Time, location *kernel.GeoPoint, note string) (TimelineEntry, error) {
	if err := status.Validate(); err != nil {
		return TimelineEntry{}, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return TimelineEntry{}, err
		}
	}

	return newTimelineEntry(status, occurredAt, location, note), nil
}

func newTimelineEntry(status Status, occurredAt time.Time, location *kernel.GeoPoint, note string) TimelineEntry {
	var loc *kernel.GeoPoint
	if location != nil {
		l := *location
		loc = &l
	}

	return TimelineEntry{
		status:     status,
		occurredAt: occurredAt.UTC(),
		location:   loc,
		note:       strings.TrimSpace(note),
	}
}

func (e TimelineEntry) Status() Status {
	return e.status
}

func (e TimelineEntry) OccurredAt() time.Time {
	return e.occurredAt
}

// Location returns nil when the entry was recorded without a position.
func (e TimelineEntry) Location() *kernel.GeoPoint {
	if e.location == nil {
		return nil
	}
	l := *e.location
	return &l
}

func (e TimelineEntry) Note() string {
	return e.note
}
