// Package testfixtures builds valid domain objects for tests across packages.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/stretchr/testify/require"
)

// Now is a fixed, microsecond-aligned instant so values survive a database round trip.
var Now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

var codeSeq atomic.Int64

// Actor builds an authenticated caller.
func Actor(t testing.TB, id kernel.UUID, role user.Role) user.Actor {
	t.Helper()
	a, err := user.NewActor(id, role)
	require.NoError(t, err)
	return a
}

// Staff returns a manager actor with a fresh id.
func Staff(t testing.TB) user.Actor {
	t.Helper()
	return Actor(t, kernel.NewUUID(), user.RoleManager)
}

// Driver returns an available driver with a van.
func Driver(t testing.TB, name string) *user.User {
	t.Helper()
	v, err := user.NewVehicle(user.VehicleVan, "VAN-1")
	require.NoError(t, err)
	id := kernel.NewUUID()
	u, err := user.NewUser(id, name, fmt.Sprintf("driver-%s@example.com", id), "+15550100", user.RoleDriver, &v)
	require.NoError(t, err)
	return u
}

// Client returns a client account.
func Client(t testing.TB) *user.User {
	t.Helper()
	id := kernel.NewUUID()
	u, err := user.NewUser(id, "Cleo Client", fmt.Sprintf("client-%s@example.com", id), "+15550101", user.RoleClient, nil)
	require.NoError(t, err)
	return u
}

// Point builds a geo point or fails the test.
func Point(t testing.TB, lon, lat float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lon, lat)
	require.NoError(t, err)
	return p
}

// Details returns booking data for a London to Paris shipment.
func Details(t testing.TB) delivery.Details {
	t.Helper()

	pickup, err := delivery.NewAddress("1 Pickup St", "London", "", "EC1", "UK", Point(t, -0.1276, 51.5072))
	require.NoError(t, err)
	dest, err := delivery.NewAddress("2 Drop Rd", "Paris", "", "75001", "FR", Point(t, 2.3522, 48.8566))
	require.NoError(t, err)
	sender, err := delivery.NewContact("Sam Sender", "+44100", "sam@example.com")
	require.NoError(t, err)
	recipient, err := delivery.NewContact("Rita Recipient", "+33100", "")
	require.NoError(t, err)
	pkg, err := delivery.NewPackageDetails("documents", 1.2, delivery.Dimensions{Length: 30, Width: 20, Height: 2}, 10, true)
	require.NoError(t, err)

	return delivery.Details{
		PickupAddress:       pickup,
		DeliveryAddress:     dest,
		PickupContact:       sender,
		DeliveryContact:     recipient,
		Package:             pkg,
		Priority:            delivery.PriorityHigh,
		SpecialInstructions: "ring twice",
		Price:               25,
	}
}

// TrackingCode returns a distinct valid code on every call.
func TrackingCode(t testing.TB) delivery.TrackingCode {
	t.Helper()
	code, err := delivery.ParseTrackingCode(fmt.Sprintf("CDTEST%06d", codeSeq.Add(1)))
	require.NoError(t, err)
	return code
}

// PendingDelivery books a delivery for clientID at Now.
func PendingDelivery(t testing.TB, clientID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), TrackingCode(t), clientID, Details(t), Now)
	require.NoError(t, err)
	return d
}

// AssignedDelivery books a delivery and assigns it to driverID.
func AssignedDelivery(t testing.TB, clientID, driverID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d := PendingDelivery(t, clientID)
	require.NoError(t, d.AssignDriver(Staff(t), driverID, "Dana Driver", Now.Add(time.Minute)))
	return d
}

// DeliveredDelivery walks an assigned delivery to Delivered with proof.
func DeliveredDelivery(t testing.TB, clientID, driverID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d := AssignedDelivery(t, clientID, driverID)
	driver := Actor(t, driverID, user.RoleDriver)
	require.NoError(t, d.Transition(driver, delivery.PickedUp, "", nil, Now.Add(time.Hour)))
	proof, err := delivery.NewProof("Rita Recipient", "sig://1", "", "")
	require.NoError(t, err)
	require.NoError(t, d.CaptureProof(driver, proof, Now.Add(2*time.Hour)))
	return d
}
