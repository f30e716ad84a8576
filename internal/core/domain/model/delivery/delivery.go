package delivery

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery was not created through
	// NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

	ErrTimelineIsEmpty = errs.NewValueIsRequiredError("timeline")
)

// Details groups the descriptive data supplied when a delivery is booked.
// Optional numeric fields left nil fall back to zero, except DistanceKm which
// defaults to the great-circle distance between pickup and destination.
type Details struct {
	PickupAddress   Address
	DeliveryAddress Address
	PickupContact   Contact
	DeliveryContact Contact
	Package         PackageDetails

	Priority            Priority
	SpecialInstructions string

	Price                    float64
	DistanceKm               *float64
	EstimatedDurationMinutes *int

	EstimatedPickupTime   *time.Time
	EstimatedDeliveryTime *time.Time
}

// Snapshot is the persisted state of a delivery, used to rehydrate it.
type Snapshot struct {
	ID           kernel.UUID
	TrackingCode TrackingCode
	ClientID     kernel.UUID
	DriverID     *kernel.UUID
	Details      Details
	Status       Status
	Timeline     []TimelineEntry
	Proof        *Proof
	Rating       *Rating

	ActualPickupTime   *time.Time
	ActualDeliveryTime *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// Delivery is the aggregate root of the lifecycle: one shipment from booking to a
// terminal state, together with its append-only timeline.
//
// Delivery follows these invariants:
//   - The tracking code is set at creation and never changes
//   - A driver is assigned in every status except Pending and Cancelled
//   - The timeline holds at least the creation entry and only ever grows,
//     with non-decreasing timestamps
//   - The actual delivery time is set exactly when the status is Delivered
//   - Proof and rating are written at most once; a rating needs status Delivered
//
// Every state change appends exactly one timeline entry.
type Delivery struct {
	id           kernel.UUID
	trackingCode TrackingCode
	clientID     kernel.UUID

	// driverID is nil until a driver is assigned
	driverID *kernel.UUID

	pickupAddress   Address
	deliveryAddress Address
	pickupContact   Contact
	deliveryContact Contact
	packageDetails  PackageDetails

	status              Status
	priority            Priority
	specialInstructions string

	price                    float64
	distanceKm               float64
	estimatedDurationMinutes int

	timeline []TimelineEntry

	// savedTimeline is the number of leading timeline entries already persisted
	savedTimeline int

	proof  *Proof
	rating *Rating

	estimatedPickupTime   *time.Time
	actualPickupTime      *time.Time
	estimatedDeliveryTime *time.Time
	actualDeliveryTime    *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int

	isConstructed bool
}

// NewDelivery books a shipment in status Pending with the creation timeline entry.
//
// Example:
//
//	code, _ := delivery.NewRandomCodeGenerator().Generate(now)
//	d, err := delivery.NewDelivery(kernel.NewUUID(), code, clientID, details, now)
//	if err != nil {
//	    // Handle validation error
//	}
func NewDelivery(id kernel.UUID, code TrackingCode, clientID kernel.UUID, details Details, now time.Time) (*Delivery, error) {
	d := &Delivery{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setTrackingCode(code),
		d.setClientID(clientID),
		d.setDetails(details),
	); err != nil {
		return nil, err
	}

	now = now.UTC()
	d.createdAt = now
	d.updatedAt = now
	d.appendTimeline(Pending, nil, noteCreated, now)

	return d, nil
}

// RestoreDelivery rehydrates a persisted delivery, re-checking the aggregate invariants.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	d := &Delivery{
		status:             s.Status,
		proof:              s.Proof,
		rating:             s.Rating,
		actualPickupTime:   copyTime(s.ActualPickupTime),
		actualDeliveryTime: copyTime(s.ActualDeliveryTime),
		createdAt:          s.CreatedAt.UTC(),
		updatedAt:          s.UpdatedAt.UTC(),
		version:            s.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		d.setID(s.ID),
		d.setTrackingCode(s.TrackingCode),
		d.setClientID(s.ClientID),
		d.setDriverID(s.DriverID),
		d.setDetails(s.Details),
		d.setTimeline(s.Timeline),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := d.checkInvariants(); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the Delivery was built by one of its constructors.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) TrackingCode() TrackingCode {
	return d.trackingCode
}

func (d *Delivery) ClientID() kernel.UUID {
	return d.clientID
}

// DriverID returns nil while the delivery is unassigned.
func (d *Delivery) DriverID() *kernel.UUID {
	if d.driverID == nil {
		return nil
	}
	id := *d.driverID
	return &id
}

func (d *Delivery) PickupAddress() Address {
	return d.pickupAddress
}

func (d *Delivery) DeliveryAddress() Address {
	return d.deliveryAddress
}

func (d *Delivery) PickupContact() Contact {
	return d.pickupContact
}

func (d *Delivery) DeliveryContact() Contact {
	return d.deliveryContact
}

func (d *Delivery) PackageDetails() PackageDetails {
	return d.packageDetails
}

func (d *Delivery) Status() Status {
	return d.status
}

func (d *Delivery) Priority() Priority {
	return d.priority
}

func (d *Delivery) SpecialInstructions() string {
	return d.specialInstructions
}

func (d *Delivery) Price() float64 {
	return d.price
}

func (d *Delivery) DistanceKm() float64 {
	return d.distanceKm
}

func (d *Delivery) EstimatedDurationMinutes() int {
	return d.estimatedDurationMinutes
}

// Timeline returns a copy of the audit trail, oldest entry first.
func (d *Delivery) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(d.timeline))
	copy(out, d.timeline)
	return out
}

// UnsavedTimeline returns the entries appended since the delivery was loaded or
// created, together with the position of the first of them in the full timeline.
// Repositories insert exactly these rows.
func (d *Delivery) UnsavedTimeline() (int, []TimelineEntry) {
	out := make([]TimelineEntry, len(d.timeline)-d.savedTimeline)
	copy(out, d.timeline[d.savedTimeline:])
	return d.savedTimeline, out
}

// Proof returns nil until proof of delivery is captured.
func (d *Delivery) Proof() *Proof {
	if d.proof == nil {
		return nil
	}
	p := *d.proof
	return &p
}

// Rating returns nil until the client rates the delivery.
func (d *Delivery) Rating() *Rating {
	if d.rating == nil {
		return nil
	}
	r := *d.rating
	return &r
}

func (d *Delivery) EstimatedPickupTime() *time.Time {
	return copyTime(d.estimatedPickupTime)
}

func (d *Delivery) ActualPickupTime() *time.Time {
	return copyTime(d.actualPickupTime)
}

func (d *Delivery) EstimatedDeliveryTime() *time.Time {
	return copyTime(d.estimatedDeliveryTime)
}

func (d *Delivery) ActualDeliveryTime() *time.Time {
	return copyTime(d.actualDeliveryTime)
}

func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// Version is the optimistic concurrency counter of the loaded state.
func (d *Delivery) Version() int {
	return d.version
}

// CanView reports whether the actor may read the full delivery: staff, the
// client who booked it and the assigned driver.
func (d *Delivery) CanView(actor user.Actor) bool {
	if actor.Validate() != nil {
		return false
	}
	return actor.IsStaff() || actor.Is(d.clientID) || d.isAssignedDriver(actor)
}

// AssignDriver binds a driver and moves the delivery to Assigned.
//
// Business rules:
//   - Only managers and admins may assign
//   - Allowed from Pending, and from Assigned to reassign before pickup
//   - The caller has verified that driverID belongs to a user with role driver
//
// Exactly one Assigned timeline entry noting the driver's name is appended.
func (d *Delivery) AssignDriver(actor user.Actor, driverID kernel.UUID, driverName string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return errs.NewNotAuthorizedError("assign driver", actor.ID().String())
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	if err := d.status.ValidateAssign(); err != nil {
		return err
	}

	d.driverID = &driverID
	d.status = Assigned
	d.appendTimeline(Assigned, nil, noteAssignedToDriver+strings.TrimSpace(driverName), now)
	return nil
}

// Transition moves the delivery to next and records it on the timeline.
//
// Business rules:
//   - The assigned driver, a manager or an admin may transition; clients never can
//   - Terminal statuses accept no change; see Status.ValidateTransition for ordering
//   - Every status except Cancelled requires an assigned driver
//
// Entering PickedUp stamps the actual pickup time once; entering Delivered stamps
// the actual delivery time.
func (d *Delivery) Transition(actor user.Actor, next Status, note string, location *kernel.GeoPoint, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsStaff() && !d.isAssignedDriver(actor) {
		return errs.NewNotAuthorizedError("change status of delivery "+d.trackingCode.String(), actor.ID().String())
	}
	if err := next.Validate(); err != nil {
		return errs.NewInvalidStatusError(next.String())
	}
	if err := d.status.ValidateTransition(next); err != nil {
		return err
	}
	if next.RequiresDriver() && d.driverID == nil {
		return errs.NewInvalidStateErrorWithCause(
			"change status", d.status.String(),
			fmt.Errorf("%s requires an assigned driver", next),
		)
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	d.applyStatus(next, location, note, now)
	return nil
}

// CaptureProof attaches proof of delivery and completes the delivery.
//
// Business rules:
//   - Only the assigned driver may capture proof
//   - Proof is written once; a Delivered, Failed or Cancelled delivery is rejected
func (d *Delivery) CaptureProof(actor user.Actor, proof Proof, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !d.isAssignedDriver(actor) {
		return errs.NewNotAuthorizedError("capture proof for delivery "+d.trackingCode.String(), actor.ID().String())
	}
	if err := proof.Validate(); err != nil {
		return err
	}
	if d.proof != nil {
		return errs.NewInvalidStateErrorWithCause("capture proof", d.status.String(), errors.New("proof already captured"))
	}
	if err := d.status.ValidateTransition(Delivered); err != nil {
		return errs.NewInvalidStateErrorWithCause("capture proof", d.status.String(), err)
	}

	ts := d.nextTimestamp(now)
	proof.capturedAt = ts
	d.proof = &proof
	d.applyStatus(Delivered, nil, noteCompletedWithProof, ts)
	return nil
}

// Rate records the client's score for a delivered shipment.
//
// Business rules:
//   - Only the client who booked the delivery may rate it
//   - Score must be within [1, 5]
//   - The status must be exactly Delivered and the delivery not yet rated
func (d *Delivery) Rate(actor user.Actor, score int, comment string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.Is(d.clientID) {
		return errs.NewNotAuthorizedError("rate delivery "+d.trackingCode.String(), actor.ID().String())
	}

	rating, err := NewRating(score, comment, now)
	if err != nil {
		return err
	}

	if d.status != Delivered {
		return errs.NewInvalidStateError("rate", d.status.String())
	}
	if d.rating != nil {
		return errs.NewInvalidStateErrorWithCause("rate", d.status.String(), errors.New("delivery already rated"))
	}

	d.rating = &rating
	d.updatedAt = d.nextTimestamp(now)
	return nil
}

func (d *Delivery) isAssignedDriver(actor user.Actor) bool {
	return actor.Role() == user.RoleDriver && d.driverID != nil && actor.Is(*d.driverID)
}

func (d *Delivery) applyStatus(next Status, location *kernel.GeoPoint, note string, now time.Time) {
	ts := d.nextTimestamp(now)

	d.status = next
	switch next {
	case PickedUp:
		if d.actualPickupTime == nil {
			d.actualPickupTime = &ts
		}
	case Delivered:
		if d.actualDeliveryTime == nil {
			d.actualDeliveryTime = &ts
		}
	}

	d.appendTimeline(next, location, note, ts)
}

func (d *Delivery) appendTimeline(status Status, location *kernel.GeoPoint, note string, now time.Time) {
	ts := d.nextTimestamp(now)
	d.timeline = append(d.timeline, newTimelineEntry(status, ts, location, note))
	d.updatedAt = ts
}

// nextTimestamp never goes back before the latest timeline entry.
func (d *Delivery) nextTimestamp(now time.Time) time.Time {
	now = now.UTC()
	if n := len(d.timeline); n > 0 && now.Before(d.timeline[n-1].occurredAt) {
		return d.timeline[n-1].occurredAt
	}
	return now
}

func (d *Delivery) checkInvariants() error {
	if err := d.status.ValidateCanHaveDriver(d.driverID != nil); err != nil {
		return err
	}
	if (d.status == Delivered) != (d.actualDeliveryTime != nil) {
		return errs.NewValueIsInvalidErrorWithCause(
			"actualDeliveryTime",
			fmt.Errorf("must be set exactly when status is %s", Delivered),
		)
	}
	if d.rating != nil && d.status != Delivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"rating",
			fmt.Errorf("a %s delivery cannot be rated", d.status),
		)
	}
	if d.proof != nil {
		if err := d.proof.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setTrackingCode(code TrackingCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	d.trackingCode = code
	return nil
}

func (d *Delivery) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("clientId", err)
	}
	d.clientID = clientID
	return nil
}

func (d *Delivery) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		d.driverID = nil
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	id := *driverID
	d.driverID = &id
	return nil
}

func (d *Delivery) setDetails(details Details) error {
	var errList []error

	if err := details.PickupAddress.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("pickupAddress", err))
	}
	if err := details.DeliveryAddress.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("deliveryAddress", err))
	}
	if err := details.PickupContact.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := details.DeliveryContact.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := details.Package.Validate(); err != nil {
		errList = append(errList, err)
	}

	priority := details.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	errList = append(errList, priority.Validate(), nonNegative("price", details.Price))

	if details.DistanceKm != nil {
		errList = append(errList, nonNegative("distanceKm", *details.DistanceKm))
	}
	if details.EstimatedDurationMinutes != nil && *details.EstimatedDurationMinutes < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"estimatedDurationMinutes", *details.EstimatedDurationMinutes, 0, math.MaxInt32))
	}
	if details.EstimatedPickupTime != nil && details.EstimatedDeliveryTime != nil &&
		details.EstimatedDeliveryTime.Before(*details.EstimatedPickupTime) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"estimatedDeliveryTime", errors.New("must not be before estimatedPickupTime")))
	}

	if err := errors.Join(errList...); err != nil {
		return err
	}

	d.pickupAddress = details.PickupAddress
	d.deliveryAddress = details.DeliveryAddress
	d.pickupContact = details.PickupContact
	d.deliveryContact = details.DeliveryContact
	d.packageDetails = details.Package
	d.priority = priority
	d.specialInstructions = strings.TrimSpace(details.SpecialInstructions)
	d.price = details.Price
	d.estimatedPickupTime = copyTime(details.EstimatedPickupTime)
	d.estimatedDeliveryTime = copyTime(details.EstimatedDeliveryTime)

	if details.EstimatedDurationMinutes != nil {
		d.estimatedDurationMinutes = *details.EstimatedDurationMinutes
	}

	if details.DistanceKm != nil {
		d.distanceKm = *details.DistanceKm
	} else {
		distance, err := details.PickupAddress.Coordinates().DistanceKm(details.DeliveryAddress.Coordinates())
		if err != nil {
			return err
		}
		d.distanceKm = math.Round(distance*100) / 100
	}

	return nil
}

func (d *Delivery) setTimeline(timeline []TimelineEntry) error {
	if len(timeline) == 0 {
		return ErrTimelineIsEmpty
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].occurredAt.Before(timeline[i-1].occurredAt) {
			return errs.NewValueIsInvalidErrorWithCause(
				"timeline",
				fmt.Errorf("entry %d is older than entry %d", i, i-1),
			)
		}
	}

	d.timeline = make([]TimelineEntry, len(timeline))
	copy(d.timeline, timeline)
	d.savedTimeline = len(timeline)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
