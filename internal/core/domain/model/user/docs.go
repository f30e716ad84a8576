// Package user models the people the delivery lifecycle refers to: clients who order
// shipments, drivers who carry them, and managers or admins who dispatch them.
//
// The package includes:
//   - User: the aggregate root mirroring an identity-provider account, with the
//     driver-only state (vehicle, position, availability, reputation, delivery counter)
//   - Role and Actor: who is calling, as asserted by a verified bearer token
//   - Vehicle: the driver's vehicle type and plate
//   - Reputation: the mean customer rating of a driver, rounded to one decimal place
//
// Credentials never live here; authentication belongs to the identity provider.
package user
