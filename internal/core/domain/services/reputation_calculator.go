package services

import (
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
)

// ReputationCalculator is a domain service that derives a driver's reputation from
// the ratings of the deliveries the driver completed.
//
// Business rules:
//   - Reputation is the arithmetic mean of all scores, rounded to one decimal place
//   - A driver without rated deliveries keeps the default reputation of 5.0
//   - Every score must lie within the rating range
//
// Example usage:
//
//	calculator := services.NewReputationCalculator()
//	reputation, err := calculator.Calculate([]int{5, 4, 4})
//	if err != nil {
//	    // A stored score was out of range
//	}
//	_ = driver.ApplyReputation(reputation) // 4.3 over 3 deliveries
type ReputationCalculator struct{}

func NewReputationCalculator() ReputationCalculator {
	return ReputationCalculator{}
}

// Calculate recomputes the reputation from scratch. The result does not depend on
// the order of scores.
func (ReputationCalculator) Calculate(scores []int) (user.Reputation, error) {
	if len(scores) == 0 {
		return user.DefaultReputation(), nil
	}

	sum := 0
	for _, score := range scores {
		if score < delivery.ScoreMin || score > delivery.ScoreMax {
			return user.Reputation{}, errs.NewValueIsOutOfRangeError("score", score, delivery.ScoreMin, delivery.ScoreMax)
		}
		sum += score
	}

	return user.NewReputation(float64(sum)/float64(len(scores)), len(scores))
}
