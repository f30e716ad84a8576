package delivery_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newActor(t *testing.T, id kernel.UUID, role user.Role) user.Actor {
	t.Helper()
	a, err := user.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func newDetails(t *testing.T) delivery.Details {
	t.Helper()

	from, _ := kernel.NewGeoPoint(-0.1276, 51.5072)
	to, _ := kernel.NewGeoPoint(2.3522, 48.8566)
	pickup, err := delivery.NewAddress("1 Pickup St", "London", "", "EC1", "UK", from)
	require.NoError(t, err)
	dest, err := delivery.NewAddress("2 Drop Rd", "Paris", "", "75001", "FR", to)
	require.NoError(t, err)
	sender, err := delivery.NewContact("Sam", "+44100", "sam@example.com")
	require.NoError(t, err)
	recipient, err := delivery.NewContact("Rita", "+33100", "")
	require.NoError(t, err)
	pkg, err := delivery.NewPackageDetails("docs", 1.2, delivery.Dimensions{Length: 30, Width: 20, Height: 2}, 10, false)
	require.NoError(t, err)

	return delivery.Details{
		PickupAddress:   pickup,
		DeliveryAddress: dest,
		PickupContact:   sender,
		DeliveryContact: recipient,
		Package:         pkg,
		Price:           25,
	}
}

type fixture struct {
	delivery *delivery.Delivery
	client   user.Actor
	driver   user.Actor
	manager  user.Actor
}

func newPending(t *testing.T) fixture {
	t.Helper()

	code, err := delivery.ParseTrackingCode("CDTEST0001")
	require.NoError(t, err)

	clientID := kernel.NewUUID()
	d, err := delivery.NewDelivery(kernel.NewUUID(), code, clientID, newDetails(t), baseTime)
	require.NoError(t, err)

	return fixture{
		delivery: d,
		client:   newActor(t, clientID, user.RoleClient),
		driver:   newActor(t, kernel.NewUUID(), user.RoleDriver),
		manager:  newActor(t, kernel.NewUUID(), user.RoleManager),
	}
}

func newAssigned(t *testing.T) fixture {
	t.Helper()
	f := newPending(t)
	require.NoError(t, f.delivery.AssignDriver(f.manager, f.driver.ID(), "Dana", baseTime.Add(time.Minute)))
	return f
}

func TestNewDelivery(t *testing.T) {
	t.Run("should start pending with the creation entry", func(t *testing.T) {
		f := newPending(t)
		d := f.delivery

		require.NoError(t, d.Validate())
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Equal(t, "CDTEST0001", d.TrackingCode().String())
		assert.True(t, d.ClientID().IsEqual(f.client.ID()))
		assert.Nil(t, d.DriverID())
		assert.Nil(t, d.Proof())
		assert.Nil(t, d.Rating())
		assert.Equal(t, delivery.PriorityNormal, d.Priority())
		assert.Equal(t, baseTime, d.CreatedAt())
		assert.Equal(t, baseTime, d.UpdatedAt())
		assert.Zero(t, d.Version())

		timeline := d.Timeline()
		require.Len(t, timeline, 1)
		assert.Equal(t, delivery.Pending, timeline[0].Status())
		assert.Equal(t, "Delivery created", timeline[0].Note())
		assert.Nil(t, timeline[0].Location())

		from, unsaved := d.UnsavedTimeline()
		assert.Zero(t, from)
		assert.Len(t, unsaved, 1)
	})

	t.Run("should compute distance between addresses when not given", func(t *testing.T) {
		d := newPending(t).delivery

		assert.InDelta(t, 343.5, d.DistanceKm(), 1.0)
	})

	t.Run("should keep an explicit distance and duration", func(t *testing.T) {
		details := newDetails(t)
		distance, minutes := 12.5, 40
		details.DistanceKm = &distance
		details.EstimatedDurationMinutes = &minutes
		details.Priority = delivery.PriorityHigh

		d, err := delivery.NewDelivery(kernel.NewUUID(), newPending(t).delivery.TrackingCode(), kernel.NewUUID(), details, baseTime)

		require.NoError(t, err)
		assert.InDelta(t, 12.5, d.DistanceKm(), 1e-9)
		assert.Equal(t, 40, d.EstimatedDurationMinutes())
		assert.Equal(t, delivery.PriorityHigh, d.Priority())
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		code, _ := delivery.ParseTrackingCode("CDTEST0002")
		late := baseTime.Add(time.Hour)

		testCases := []struct {
			name   string
			client kernel.UUID
			code   delivery.TrackingCode
			mutate func(*delivery.Details)
			target error
		}{
			{name: "missing client", code: code, mutate: func(*delivery.Details) {}, target: errs.ErrValueIsRequired},
			{name: "missing code", client: kernel.NewUUID(), mutate: func(*delivery.Details) {}, target: errs.ErrValueIsRequired},
			{name: "missing pickup address", client: kernel.NewUUID(), code: code, mutate: func(d *delivery.Details) { d.PickupAddress = delivery.Address{} }, target: errs.ErrValueIsRequired},
			{name: "missing package", client: kernel.NewUUID(), code: code, mutate: func(d *delivery.Details) { d.Package = delivery.PackageDetails{} }, target: delivery.ErrPackageDetailsIsNotConstructed},
			{name: "negative price", client: kernel.NewUUID(), code: code, mutate: func(d *delivery.Details) { d.Price = -1 }, target: errs.ErrValueIsOutOfRange},
			{name: "unknown priority", client: kernel.NewUUID(), code: code, mutate: func(d *delivery.Details) { d.Priority = "asap" }, target: errs.ErrValueIsInvalid},
			{
				name: "delivery estimated before pickup", client: kernel.NewUUID(), code: code,
				mutate: func(d *delivery.Details) {
					d.EstimatedPickupTime = &late
					d.EstimatedDeliveryTime = &baseTime
				},
				target: errs.ErrValueIsInvalid,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				details := newDetails(t)
				tc.mutate(&details)

				d, err := delivery.NewDelivery(kernel.NewUUID(), tc.code, tc.client, details, baseTime)

				require.ErrorIs(t, err, tc.target)
				assert.Nil(t, d)
			})
		}
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var d *delivery.Delivery
		require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
		require.ErrorIs(t, (&delivery.Delivery{}).Validate(), delivery.ErrDeliveryIsNotConstructed)
	})
}

func TestDelivery_AssignDriver(t *testing.T) {
	t.Run("manager assigns a pending delivery", func(t *testing.T) {
		f := newAssigned(t)
		d := f.delivery

		assert.Equal(t, delivery.Assigned, d.Status())
		require.NotNil(t, d.DriverID())
		assert.True(t, d.DriverID().IsEqual(f.driver.ID()))

		timeline := d.Timeline()
		require.Len(t, timeline, 2)
		assert.Equal(t, delivery.Assigned, timeline[1].Status())
		assert.Equal(t, "Assigned to driver Dana", timeline[1].Note())
	})

	t.Run("admin reassigns before pickup", func(t *testing.T) {
		f := newAssigned(t)
		admin := newActor(t, kernel.NewUUID(), user.RoleAdmin)
		other := kernel.NewUUID()

		require.NoError(t, f.delivery.AssignDriver(admin, other, "Eve", baseTime.Add(2*time.Minute)))

		assert.True(t, f.delivery.DriverID().IsEqual(other))
		assert.Len(t, f.delivery.Timeline(), 3)
	})

	t.Run("driver and client may not assign", func(t *testing.T) {
		f := newPending(t)

		for _, actor := range []user.Actor{f.driver, f.client} {
			err := f.delivery.AssignDriver(actor, f.driver.ID(), "Dana", baseTime)

			require.ErrorIs(t, err, errs.ErrNotAuthorized)
		}
		assert.Len(t, f.delivery.Timeline(), 1)
		assert.Equal(t, delivery.Pending, f.delivery.Status())
	})

	t.Run("cannot reassign after pickup", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.PickedUp, "", nil, baseTime.Add(time.Hour)))

		err := f.delivery.AssignDriver(f.manager, kernel.NewUUID(), "Eve", baseTime.Add(2*time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, f.delivery.DriverID().IsEqual(f.driver.ID()))
	})

	t.Run("cannot assign a cancelled delivery", func(t *testing.T) {
		f := newPending(t)
		require.NoError(t, f.delivery.Transition(f.manager, delivery.Cancelled, "client request", nil, baseTime))

		err := f.delivery.AssignDriver(f.manager, f.driver.ID(), "Dana", baseTime)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Nil(t, f.delivery.DriverID())
	})

	t.Run("unconstructed actor is rejected", func(t *testing.T) {
		f := newPending(t)

		err := f.delivery.AssignDriver(user.Actor{}, f.driver.ID(), "Dana", baseTime)

		require.ErrorIs(t, err, user.ErrActorIsNotConstructed)
	})
}

func TestDelivery_Transition(t *testing.T) {
	t.Run("driver walks the happy path", func(t *testing.T) {
		f := newAssigned(t)
		d := f.delivery
		loc, _ := kernel.NewGeoPoint(1.0, 50.0)

		pickedAt := baseTime.Add(time.Hour)
		require.NoError(t, d.Transition(f.driver, delivery.PickedUp, "", nil, pickedAt))
		require.NoError(t, d.Transition(f.driver, delivery.InTransit, "crossing", &loc, pickedAt.Add(time.Hour)))
		require.NoError(t, d.Transition(f.driver, delivery.OutForDelivery, "", nil, pickedAt.Add(2*time.Hour)))
		deliveredAt := pickedAt.Add(3 * time.Hour)
		require.NoError(t, d.Transition(f.driver, delivery.Delivered, "", nil, deliveredAt))

		assert.Equal(t, delivery.Delivered, d.Status())
		require.NotNil(t, d.ActualPickupTime())
		assert.Equal(t, pickedAt, *d.ActualPickupTime())
		require.NotNil(t, d.ActualDeliveryTime())
		assert.Equal(t, deliveredAt, *d.ActualDeliveryTime())
		assert.Equal(t, deliveredAt, d.UpdatedAt())

		timeline := d.Timeline()
		require.Len(t, timeline, 6)
		assert.Equal(t, "crossing", timeline[3].Note())
		require.NotNil(t, timeline[3].Location())
		assert.InDelta(t, 50.0, timeline[3].Location().Latitude(), 1e-9)
	})

	t.Run("skipping forward is allowed", func(t *testing.T) {
		f := newAssigned(t)

		require.NoError(t, f.delivery.Transition(f.driver, delivery.InTransit, "", nil, baseTime.Add(time.Hour)))

		assert.Nil(t, f.delivery.ActualPickupTime())
	})

	t.Run("manager may transition", func(t *testing.T) {
		f := newAssigned(t)

		require.NoError(t, f.delivery.Transition(f.manager, delivery.Failed, "address not found", nil, baseTime.Add(time.Hour)))

		assert.Equal(t, delivery.Failed, f.delivery.Status())
	})

	t.Run("manager cancels a pending delivery", func(t *testing.T) {
		f := newPending(t)

		require.NoError(t, f.delivery.Transition(f.manager, delivery.Cancelled, "", nil, baseTime.Add(time.Minute)))

		assert.Equal(t, delivery.Cancelled, f.delivery.Status())
		assert.Len(t, f.delivery.Timeline(), 2)
	})

	t.Run("client may never transition", func(t *testing.T) {
		f := newAssigned(t)

		err := f.delivery.Transition(f.client, delivery.Cancelled, "", nil, baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Equal(t, delivery.Assigned, f.delivery.Status())
	})

	t.Run("other driver is rejected", func(t *testing.T) {
		f := newAssigned(t)
		stranger := newActor(t, kernel.NewUUID(), user.RoleDriver)

		err := f.delivery.Transition(stranger, delivery.PickedUp, "", nil, baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("driver cannot act on an unassigned delivery", func(t *testing.T) {
		f := newPending(t)

		err := f.delivery.Transition(f.driver, delivery.Cancelled, "", nil, baseTime)

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("status requiring a driver is rejected while pending", func(t *testing.T) {
		f := newPending(t)

		err := f.delivery.Transition(f.manager, delivery.PickedUp, "", nil, baseTime)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, delivery.Pending, f.delivery.Status())
	})

	t.Run("assigned is reachable only through assignment", func(t *testing.T) {
		f := newAssigned(t)

		err := f.delivery.Transition(f.manager, delivery.Assigned, "", nil, baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("going backwards is rejected", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.OutForDelivery, "", nil, baseTime.Add(time.Hour)))

		err := f.delivery.Transition(f.driver, delivery.PickedUp, "", nil, baseTime.Add(2*time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Len(t, f.delivery.Timeline(), 3)
	})

	t.Run("terminal statuses accept no change", func(t *testing.T) {
		for _, terminal := range []delivery.Status{delivery.Delivered, delivery.Failed, delivery.Cancelled} {
			f := newAssigned(t)
			require.NoError(t, f.delivery.Transition(f.manager, terminal, "", nil, baseTime.Add(time.Hour)))
			updatedAt := f.delivery.UpdatedAt()

			for _, next := range delivery.Statuses() {
				err := f.delivery.Transition(f.manager, next, "", nil, baseTime.Add(2*time.Hour))
				require.ErrorIs(t, err, errs.ErrInvalidState, "%s -> %s", terminal, next)
			}

			assert.Equal(t, terminal, f.delivery.Status())
			assert.Len(t, f.delivery.Timeline(), 3)
			assert.Equal(t, updatedAt, f.delivery.UpdatedAt())
		}
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		f := newAssigned(t)

		err := f.delivery.Transition(f.manager, delivery.Unknown, "", nil, baseTime)

		require.ErrorIs(t, err, errs.ErrInvalidStatus)
	})

	t.Run("timestamps never go backwards", func(t *testing.T) {
		f := newAssigned(t)

		require.NoError(t, f.delivery.Transition(f.driver, delivery.PickedUp, "", nil, baseTime.Add(-time.Hour)))

		timeline := f.delivery.Timeline()
		assert.False(t, timeline[2].OccurredAt().Before(timeline[1].OccurredAt()))
		assert.Equal(t, timeline[2].OccurredAt(), *f.delivery.ActualPickupTime())
	})
}

func TestDelivery_CaptureProof(t *testing.T) {
	proof, err := delivery.NewProof("Rita", "sig://1", "", "handed over")
	require.NoError(t, err)

	t.Run("assigned driver completes the delivery", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.InTransit, "", nil, baseTime.Add(time.Hour)))
		at := baseTime.Add(2 * time.Hour)

		require.NoError(t, f.delivery.CaptureProof(f.driver, proof, at))

		d := f.delivery
		assert.Equal(t, delivery.Delivered, d.Status())
		require.NotNil(t, d.Proof())
		assert.Equal(t, "Rita", d.Proof().RecipientName())
		assert.Equal(t, at, d.Proof().CapturedAt())
		assert.Equal(t, at, *d.ActualDeliveryTime())

		timeline := d.Timeline()
		last := timeline[len(timeline)-1]
		assert.Equal(t, delivery.Delivered, last.Status())
		assert.Equal(t, "Delivery completed with proof", last.Note())
	})

	t.Run("proof is captured once", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.CaptureProof(f.driver, proof, baseTime.Add(time.Hour)))

		err := f.delivery.CaptureProof(f.driver, proof, baseTime.Add(2*time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Len(t, f.delivery.Timeline(), 3)
	})

	t.Run("delivered without proof rejects proof", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.Delivered, "", nil, baseTime.Add(time.Hour)))

		err := f.delivery.CaptureProof(f.driver, proof, baseTime.Add(2*time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Nil(t, f.delivery.Proof())
	})

	t.Run("failed or cancelled delivery rejects proof", func(t *testing.T) {
		for _, terminal := range []delivery.Status{delivery.Failed, delivery.Cancelled} {
			f := newAssigned(t)
			require.NoError(t, f.delivery.Transition(f.manager, terminal, "", nil, baseTime.Add(time.Hour)))

			err := f.delivery.CaptureProof(f.driver, proof, baseTime.Add(2*time.Hour))

			require.ErrorIs(t, err, errs.ErrInvalidState, terminal.String())
		}
	})

	t.Run("only the assigned driver captures proof", func(t *testing.T) {
		f := newAssigned(t)
		stranger := newActor(t, kernel.NewUUID(), user.RoleDriver)

		for _, actor := range []user.Actor{f.manager, f.client, stranger} {
			err := f.delivery.CaptureProof(actor, proof, baseTime.Add(time.Hour))

			require.ErrorIs(t, err, errs.ErrNotAuthorized)
		}
		assert.Equal(t, delivery.Assigned, f.delivery.Status())
	})

	t.Run("unconstructed proof is rejected", func(t *testing.T) {
		f := newAssigned(t)

		err := f.delivery.CaptureProof(f.driver, delivery.Proof{}, baseTime.Add(time.Hour))

		require.ErrorIs(t, err, delivery.ErrProofIsNotConstructed)
	})
}

func TestDelivery_Rate(t *testing.T) {
	delivered := func(t *testing.T) fixture {
		t.Helper()
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.Delivered, "", nil, baseTime.Add(time.Hour)))
		return f
	}

	t.Run("client rates a delivered shipment", func(t *testing.T) {
		f := delivered(t)
		timelineLen := len(f.delivery.Timeline())

		require.NoError(t, f.delivery.Rate(f.client, 4, "quick", baseTime.Add(2*time.Hour)))

		require.NotNil(t, f.delivery.Rating())
		assert.Equal(t, 4, f.delivery.Rating().Score())
		assert.Equal(t, "quick", f.delivery.Rating().Comment())
		assert.Len(t, f.delivery.Timeline(), timelineLen)
	})

	t.Run("rating is written once", func(t *testing.T) {
		f := delivered(t)
		require.NoError(t, f.delivery.Rate(f.client, 5, "", baseTime.Add(2*time.Hour)))

		err := f.delivery.Rate(f.client, 1, "", baseTime.Add(3*time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, 5, f.delivery.Rating().Score())
	})

	t.Run("only delivered shipments can be rated", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.Failed, "", nil, baseTime.Add(time.Hour)))

		err := f.delivery.Rate(f.client, 3, "", baseTime.Add(2*time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Nil(t, f.delivery.Rating())
	})

	t.Run("score outside 1..5 is a validation error", func(t *testing.T) {
		f := delivered(t)

		err := f.delivery.Rate(f.client, 6, "", baseTime.Add(2*time.Hour))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("only the client may rate", func(t *testing.T) {
		f := delivered(t)
		otherClient := newActor(t, kernel.NewUUID(), user.RoleClient)

		for _, actor := range []user.Actor{f.driver, f.manager, otherClient} {
			err := f.delivery.Rate(actor, 5, "", baseTime.Add(2*time.Hour))

			require.ErrorIs(t, err, errs.ErrNotAuthorized)
		}
	})
}

func TestDelivery_CanView(t *testing.T) {
	f := newAssigned(t)
	admin := newActor(t, kernel.NewUUID(), user.RoleAdmin)
	otherClient := newActor(t, kernel.NewUUID(), user.RoleClient)
	otherDriver := newActor(t, kernel.NewUUID(), user.RoleDriver)

	assert.True(t, f.delivery.CanView(f.client))
	assert.True(t, f.delivery.CanView(f.driver))
	assert.True(t, f.delivery.CanView(f.manager))
	assert.True(t, f.delivery.CanView(admin))
	assert.False(t, f.delivery.CanView(otherClient))
	assert.False(t, f.delivery.CanView(otherDriver))
	assert.False(t, f.delivery.CanView(user.Actor{}))
}

func snapshotOf(d *delivery.Delivery) delivery.Snapshot {
	distance := d.DistanceKm()
	minutes := d.EstimatedDurationMinutes()

	return delivery.Snapshot{
		ID:           d.ID(),
		TrackingCode: d.TrackingCode(),
		ClientID:     d.ClientID(),
		DriverID:     d.DriverID(),
		Details: delivery.Details{
			PickupAddress:            d.PickupAddress(),
			DeliveryAddress:          d.DeliveryAddress(),
			PickupContact:            d.PickupContact(),
			DeliveryContact:          d.DeliveryContact(),
			Package:                  d.PackageDetails(),
			Priority:                 d.Priority(),
			SpecialInstructions:      d.SpecialInstructions(),
			Price:                    d.Price(),
			DistanceKm:               &distance,
			EstimatedDurationMinutes: &minutes,
			EstimatedPickupTime:      d.EstimatedPickupTime(),
			EstimatedDeliveryTime:    d.EstimatedDeliveryTime(),
		},
		Status:             d.Status(),
		Timeline:           d.Timeline(),
		Proof:              d.Proof(),
		Rating:             d.Rating(),
		ActualPickupTime:   d.ActualPickupTime(),
		ActualDeliveryTime: d.ActualDeliveryTime(),
		CreatedAt:          d.CreatedAt(),
		UpdatedAt:          d.UpdatedAt(),
		Version:            d.Version() + 1,
	}
}

func TestRestoreDelivery(t *testing.T) {
	t.Run("should rebuild state and track only new entries", func(t *testing.T) {
		f := newAssigned(t)
		require.NoError(t, f.delivery.Transition(f.driver, delivery.PickedUp, "", nil, baseTime.Add(time.Hour)))

		restored, err := delivery.RestoreDelivery(snapshotOf(f.delivery))
		require.NoError(t, err)

		assert.True(t, restored.IsEqual(f.delivery))
		assert.Equal(t, delivery.PickedUp, restored.Status())
		assert.Equal(t, 1, restored.Version())
		assert.Equal(t, f.delivery.Timeline(), restored.Timeline())

		from, unsaved := restored.UnsavedTimeline()
		assert.Equal(t, 3, from)
		assert.Empty(t, unsaved)

		require.NoError(t, restored.Transition(f.driver, delivery.InTransit, "", nil, baseTime.Add(2*time.Hour)))

		from, unsaved = restored.UnsavedTimeline()
		assert.Equal(t, 3, from)
		require.Len(t, unsaved, 1)
		assert.Equal(t, delivery.InTransit, unsaved[0].Status())
	})

	t.Run("should reject inconsistent state", func(t *testing.T) {
		f := newAssigned(t)
		later := baseTime.Add(time.Hour)

		testCases := []struct {
			name   string
			mutate func(*delivery.Snapshot)
			target error
		}{
			{name: "empty timeline", mutate: func(s *delivery.Snapshot) { s.Timeline = nil }, target: delivery.ErrTimelineIsEmpty},
			{name: "unknown status", mutate: func(s *delivery.Snapshot) { s.Status = delivery.Unknown }, target: errs.ErrValueIsInvalid},
			{name: "assigned without driver", mutate: func(s *delivery.Snapshot) { s.DriverID = nil }, target: errs.ErrValueIsInvalid},
			{name: "delivered without delivery time", mutate: func(s *delivery.Snapshot) { s.Status = delivery.Delivered }, target: errs.ErrValueIsInvalid},
			{name: "delivery time while assigned", mutate: func(s *delivery.Snapshot) { s.ActualDeliveryTime = &later }, target: errs.ErrValueIsInvalid},
			{
				name: "rating before delivery",
				mutate: func(s *delivery.Snapshot) {
					r, _ := delivery.NewRating(5, "", later)
					s.Rating = &r
				},
				target: errs.ErrValueIsInvalid,
			},
			{
				name: "timeline out of order",
				mutate: func(s *delivery.Snapshot) {
					s.Timeline[0], s.Timeline[1] = s.Timeline[1], s.Timeline[0]
				},
				target: errs.ErrValueIsInvalid,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				s := snapshotOf(f.delivery)
				tc.mutate(&s)

				d, err := delivery.RestoreDelivery(s)

				require.ErrorIs(t, err, tc.target)
				assert.Nil(t, d)
			})
		}
	})
}

// TestDelivery_RandomOperations drives a delivery through random operations and
// checks the lifecycle properties after every step.
func TestDelivery_RandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 42))
	proof, _ := delivery.NewProof("Rita", "sig", "", "")

	for run := range 200 {
		f := newPending(t)
		stranger := newActor(t, kernel.NewUUID(), user.RoleDriver)
		actors := []user.Actor{f.client, f.driver, f.manager, stranger}
		statuses := delivery.Statuses()
		now := baseTime

		for step := range 12 {
			d := f.delivery
			before := d.Timeline()
			statusBefore := d.Status()
			codeBefore := d.TrackingCode()
			actor := actors[rnd.IntN(len(actors))]
			now = now.Add(time.Duration(rnd.IntN(120)-30) * time.Minute)

			var err error
			appends := true
			switch rnd.IntN(4) {
			case 0:
				err = d.AssignDriver(actor, f.driver.ID(), "Dana", now)
			case 1:
				err = d.Transition(actor, statuses[rnd.IntN(len(statuses))], "", nil, now)
			case 2:
				err = d.CaptureProof(actor, proof, now)
			case 3:
				err = d.Rate(actor, 1+rnd.IntN(5), "", now)
				appends = false
			}

			after := d.Timeline()
			require.True(t, codeBefore.IsEqual(d.TrackingCode()))
			require.Equal(t, before, after[:len(before)], "run %d step %d: timeline prefix changed", run, step)

			if err != nil || !appends {
				require.Len(t, after, len(before), "run %d step %d", run, step)
				if err != nil {
					require.Equal(t, statusBefore, d.Status())
				}
			} else {
				require.Len(t, after, len(before)+1, "run %d step %d", run, step)
				require.Equal(t, d.Status(), after[len(after)-1].Status())
			}

			if statusBefore.IsTerminal() {
				require.Equal(t, statusBefore, d.Status())
			}

			for i := 1; i < len(after); i++ {
				require.False(t, after[i].OccurredAt().Before(after[i-1].OccurredAt()))
			}

			require.NoError(t, d.Status().ValidateCanHaveDriver(d.DriverID() != nil))
			require.Equal(t, d.Status() == delivery.Delivered, d.ActualDeliveryTime() != nil)
			if d.Rating() != nil {
				require.Equal(t, delivery.Delivered, d.Status())
			}

			_, err = delivery.RestoreDelivery(snapshotOf(d))
			require.NoError(t, err)
		}
	}
}
