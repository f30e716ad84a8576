package user

import (
	"math"

	"parceltrack/internal/pkg/errs"
)

const (
	// DefaultRating is what a driver shows before the first rated delivery.
	DefaultRating = 5.0

	RatingMin = 0.0
	RatingMax = 5.0
)

// Reputation is a driver's mean customer score and the number of ratings behind it.
type Reputation struct {
	rating float64
	rated  int
}

// NewReputation validates rating against [0, 5] and rounds it to one decimal place.
func NewReputation(rating float64, rated int) (Reputation, error) {
	if math.IsNaN(rating) || rating < RatingMin || rating > RatingMax {
		return Reputation{}, errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	if rated < 0 {
		return Reputation{}, errs.NewValueIsOutOfRangeError("ratedDeliveries", rated, 0, math.MaxInt)
	}

	return Reputation{rating: RoundRating(rating), rated: rated}, nil
}

// DefaultReputation is the reputation of a driver nobody has rated yet.
func DefaultReputation() Reputation {
	return Reputation{rating: DefaultRating}
}

func (r Reputation) Rating() float64 {
	return r.rating
}

func (r Reputation) RatedDeliveries() int {
	return r.rated
}

// RoundRating rounds half away from zero to one decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
