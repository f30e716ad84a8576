// Package delivery provides the Delivery aggregate root and the value objects of a
// shipment's lifecycle.
//
// The package includes:
//   - Delivery: the aggregate root that owns status, driver assignment, the
//     append-only timeline, proof of delivery and the client's rating
//   - Status: the lifecycle state machine (pending, assigned, picked_up, in_transit,
//     out_for_delivery and the terminal delivered, failed, cancelled)
//   - TrackingCode and CodeGenerator: the public identifier and its issuer
//   - Address, Contact, PackageDetails, Priority: what is shipped, from where, to whom
//   - TimelineEntry, Proof, Rating: the records written as the delivery progresses
//
// Key business rules:
//   - Only managers and admins assign drivers; reassignment is possible until pickup
//   - Status moves forward only, and Assigned is entered only by assignment
//   - Clients never change status; drivers act only on deliveries assigned to them
//   - Proof completes a delivery and is captured once, by the assigned driver
//   - Only the client rates, once, and only a delivered shipment
package delivery
