package delivery

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
//
// State transitions:
//
//	Pending ──assign──> Assigned ──> PickedUp ──> InTransit ──> OutForDelivery ──> Delivered
//	   │   <──reassign──┘   │            │            │               │
//	   │                    └────────────┴────────────┴───────────────┴──> Failed | Cancelled
//	   └──> Cancelled
//
// Forward skips along the happy path are allowed (InTransit -> Delivered), moving
// backwards or re-entering the current status is not. Assigned is entered only
// through driver assignment. Delivered, Failed and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	Pending
	Assigned
	PickedUp
	InTransit
	OutForDelivery
	Delivered
	Failed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Assigned:       "assigned",
		PickedUp:       "picked_up",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Failed:         "failed",
		Cancelled:      "cancelled",
	}
}

// getAllowedTransitions lists, per non-terminal status, the statuses a plain
// transition may move to.
func getAllowedTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses have no outgoing edges
	return map[Status][]Status{
		Pending:        {Cancelled},
		Assigned:       {PickedUp, InTransit, OutForDelivery, Delivered, Failed, Cancelled},
		PickedUp:       {InTransit, OutForDelivery, Delivered, Failed, Cancelled},
		InTransit:      {OutForDelivery, Delivered, Failed, Cancelled},
		OutForDelivery: {Delivered, Failed, Cancelled},
	}
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Assigned, PickedUp, InTransit, OutForDelivery, Delivered, Failed, Cancelled}
}

// ParseStatus converts the wire name of a status. Letter case and surrounding
// spaces are ignored; anything outside the enumeration is an InvalidStatusError.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewInvalidStatusError(s)
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, e.g. "picked_up".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status accepts no further change.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed || s == Cancelled
}

// RequiresDriver reports whether a delivery in this status must have a driver.
func (s Status) RequiresDriver() bool {
	return s != Pending && s != Cancelled && s != Unknown
}

// ValidateTransition checks a plain status change from s to next.
//
// Returns an InvalidStateError when s is terminal, when next is Pending or
// Assigned, or when next is not reachable from s.
func (s Status) ValidateTransition(next Status) error {
	if s.IsTerminal() {
		return errs.NewInvalidStateErrorWithCause(
			"change status", s.String(),
			fmt.Errorf("%s is a terminal status", s),
		)
	}

	if next == Assigned {
		return errs.NewInvalidStateErrorWithCause(
			"change status", s.String(),
			fmt.Errorf("%s is reachable only through driver assignment", next),
		)
	}

	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == next {
			return nil
		}
	}

	return errs.NewInvalidStateErrorWithCause(
		"change status", s.String(),
		fmt.Errorf("transition from %s to %s is not allowed", s, next),
	)
}

// ValidateAssign checks that a driver may be (re)assigned. Reassignment is allowed
// until the parcel is picked up.
func (s Status) ValidateAssign() error {
	if s != Pending && s != Assigned {
		return errs.NewInvalidStateError("assign driver", s.String())
	}
	return nil
}

// ValidateCanHaveDriver checks the consistency between the status and driver assignment.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if !hasDriver && s.RequiresDriver() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status for a delivery without driver", s),
		)
	}
	if hasDriver && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status for a delivery with driver", s),
		)
	}
	return nil
}

// Message is the customer-facing text announcing entry into the status.
func (s Status) Message() string {
	switch s {
	case Pending:
		return "Your delivery has been created"
	case Assigned:
		return "Your delivery has been assigned to a driver"
	case PickedUp:
		return "Your package has been picked up"
	case InTransit:
		return "Your package is in transit"
	case OutForDelivery:
		return "Your package is out for delivery"
	case Delivered:
		return "Your package has been delivered"
	case Failed:
		return "Delivery attempt failed"
	case Cancelled:
		return "Your delivery has been cancelled"
	default:
		return "Your delivery status has changed"
	}
}
