// Package services provides domain services: business rules that work on data
// gathered from more than one aggregate.
//
// The package includes:
//   - ReputationCalculator: derives a driver's reputation from the scores of the
//     deliveries they completed
package services
