package user

import (
	"errors"
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

type VehicleType string

const (
	VehicleBike       VehicleType = "bike"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
	VehicleVan        VehicleType = "van"
	VehicleTruck      VehicleType = "truck"
)

var (
	ErrVehiclePlateIsRequired  = errs.NewValueIsRequiredError("vehiclePlate")
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")
)

func (t VehicleType) Validate() error {
	switch t {
	case VehicleBike, VehicleMotorcycle, VehicleCar, VehicleVan, VehicleTruck:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("vehicleType", fmt.Errorf("%q is not a known vehicle type", string(t)))
	}
}

// Vehicle is what a driver delivers with.
type Vehicle struct {
	vehicleType VehicleType
	plate       string
	guard       guard.ConstructorGuard
}

func NewVehicle(vehicleType VehicleType, plate string) (Vehicle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))

	var plateErr error
	if plate == "" {
		plateErr = ErrVehiclePlateIsRequired
	}
	if err := errors.Join(vehicleType.Validate(), plateErr); err != nil {
		return Vehicle{}, err
	}

	return Vehicle{
		vehicleType: vehicleType,
		plate:       plate,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (v Vehicle) Validate() error {
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v Vehicle) Type() VehicleType {
	return v.vehicleType
}

func (v Vehicle) Plate() string {
	return v.plate
}
