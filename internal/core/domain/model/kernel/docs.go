// Package kernel provides the shared value objects of the parceltrack domain.
//
// The package includes:
//   - UUID: identifier for deliveries and users, rejecting the zero value
//   - GeoPoint: a validated (longitude, latitude) position with great-circle distance
//
// Both are immutable values built through constructors guarded by guard.ConstructorGuard,
// so an unconstructed zero value fails Validate.
package kernel
