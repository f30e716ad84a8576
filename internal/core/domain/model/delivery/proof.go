package delivery

import (
	"errors"
	"strings"
	"time"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrProofIsNotConstructed    = errors.New("Proof must be created via NewProof constructor")
	ErrProofRecipientIsRequired = errs.NewValueIsRequiredError("proof.recipientName")
	ErrProofEvidenceIsRequired  = errs.NewValueIsRequiredError("proof.signature or proof.photo")
)

// Proof is the evidence collected at handover. Signature and photo are references
// (URLs or storage keys) to artifacts kept by an external file store.
type Proof struct {
	recipientName string
	signatureRef  string
	photoRef      string
	note          string
	capturedAt    time.Time
	guard         guard.ConstructorGuard
}

// NewProof requires the recipient's name and at least one of signature or photo.
// The capture time is stamped by the delivery when the proof is attached.
func NewProof(recipientName, signatureRef, photoRef, note string) (Proof, error) {
	recipientName = strings.TrimSpace(recipientName)
	signatureRef = strings.TrimSpace(signatureRef)
	photoRef = strings.TrimSpace(photoRef)

	var recipientErr, evidenceErr error
	if recipientName == "" {
		recipientErr = ErrProofRecipientIsRequired
	}
	if signatureRef == "" && photoRef == "" {
		evidenceErr = ErrProofEvidenceIsRequired
	}
	if err := errors.Join(recipientErr, evidenceErr); err != nil {
		return Proof{}, err
	}

	return Proof{
		recipientName: recipientName,
		signatureRef:  signatureRef,
		photoRef:      photoRef,
		note:          strings.TrimSpace(note),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreProof rebuilds a persisted proof including its capture time.
func RestoreProof(recipientName, signatureRef, photoRef, note string, capturedAt time.Time) (Proof, error) {
	p, err := NewProof(recipientName, signatureRef, photoRef, note)
	if err != nil {
		return Proof{}, err
	}
	p.capturedAt = capturedAt.UTC()
	return p, nil
}

func (p Proof) Validate() error {
	return p.guard.Validate(ErrProofIsNotConstructed)
}

func (p Proof) RecipientName() string {
	return p.recipientName
}

func (p Proof) SignatureRef() string {
	return p.signatureRef
}

func (p Proof) PhotoRef() string {
	return p.photoRef
}

func (p Proof) Note() string {
	return p.note
}

func (p Proof) CapturedAt() time.Time {
	return p.capturedAt
}
