package delivery

import (
	"errors"
	"math"
	"strings"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrPackageDetailsIsNotConstructed = errors.New("PackageDetails must be created via NewPackageDetails constructor")

// Dimensions are the outer measurements of a parcel in centimetres.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// PackageDetails describes what is being shipped.
type PackageDetails struct {
	description string
	weightKg    float64
	dimensions  Dimensions
	value       float64
	fragile     bool
	guard       guard.ConstructorGuard
}

// NewPackageDetails rejects negative or non-finite weight, value and dimensions.
func NewPackageDetails(description string, weightKg float64, dimensions Dimensions, value float64, fragile bool) (PackageDetails, error) {
	if err := errors.Join(
		nonNegative("package.weight", weightKg),
		nonNegative("package.dimensions.length", dimensions.Length),
		nonNegative("package.dimensions.width", dimensions.Width),
		nonNegative("package.dimensions.height", dimensions.Height),
		nonNegative("package.value", value),
	); err != nil {
		return PackageDetails{}, err
	}

	return PackageDetails{
		description: strings.TrimSpace(description),
		weightKg:    weightKg,
		dimensions:  dimensions,
		value:       value,
		fragile:     fragile,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (p PackageDetails) Validate() error {
	return p.guard.Validate(ErrPackageDetailsIsNotConstructed)
}

func (p PackageDetails) Description() string    { return p.description }
func (p PackageDetails) WeightKg() float64      { return p.weightKg }
func (p PackageDetails) Dimensions() Dimensions { return p.dimensions }
func (p PackageDetails) Value() float64         { return p.value }
func (p PackageDetails) Fragile() bool          { return p.fragile }

func nonNegative(param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errs.NewValueIsOutOfRangeError(param, v, 0, math.MaxFloat64)
	}
	return nil
}
