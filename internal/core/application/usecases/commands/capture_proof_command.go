package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrCaptureProofCommandIsNotConstructed = errors.New(
	"CaptureProofCommand must be created via NewCaptureProofCommand constructor",
)

// CaptureProofCommand completes a delivery with the recipient's proof.
// Only artifact references are carried; the files live in external storage.
type CaptureProofCommand struct {
	actor      user.Actor
	deliveryID kernel.UUID
	proof      delivery.Proof

	guard guard.ConstructorGuard
}

func NewCaptureProofCommand(
	actor user.Actor,
	deliveryID kernel.UUID,
	recipientName, signatureRef, photoRef, note string,
) (CaptureProofCommand, error) {
	proof, proofErr := delivery.NewProof(recipientName, signatureRef, photoRef, note)
	if err := errors.Join(actor.Validate(), deliveryID.Validate(), proofErr); err != nil {
		return CaptureProofCommand{}, err
	}

	return CaptureProofCommand{
		actor:      actor,
		deliveryID: deliveryID,
		proof:      proof,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CaptureProofCommand) Validate() error {
	return c.guard.Validate(ErrCaptureProofCommandIsNotConstructed)
}

func (c CaptureProofCommand) Actor() user.Actor {
	return c.actor
}

func (c CaptureProofCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c CaptureProofCommand) Proof() delivery.Proof {
	return c.proof
}
