package delivery

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"parceltrack/internal/pkg/errs"
)

const (
	trackingCodePrefix     = "CD"
	trackingCodeRandomLen  = 4
	trackingCodeRandomSpan = 36 * 36 * 36 * 36
)

var trackingCodePattern = regexp.MustCompile(`^[A-Z0-9]{6,32}$`)

// TrackingCode is the public, human-shareable identifier of a delivery.
// It is uppercase alphanumeric and never changes once issued.
type TrackingCode struct {
	value string
}

// ParseTrackingCode normalises user input (trim, uppercase) and checks the format.
func ParseTrackingCode(s string) (TrackingCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if normalized == "" {
		return TrackingCode{}, errs.NewValueIsRequiredError("trackingCode")
	}
	if !trackingCodePattern.MatchString(normalized) {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause(
			"trackingCode",
			fmt.Errorf("%q must be 6 to 32 letters or digits", s),
		)
	}
	return TrackingCode{value: normalized}, nil
}

func (c TrackingCode) Validate() error {
	if c.value == "" {
		return errs.NewValueIsRequiredError("trackingCode")
	}
	return nil
}

func (c TrackingCode) String() string {
	return c.value
}

func (c TrackingCode) IsEqual(other TrackingCode) bool {
	return c.value == other.value
}

// CodeGenerator issues candidate tracking codes. Uniqueness is not promised here;
// the store enforces it and callers regenerate on conflict.
type CodeGenerator interface {
	Generate(now time.Time) (TrackingCode, error)
}

// RandomCodeGenerator builds codes as "CD" + base36(unix millis) + 4 random base36 characters.
type RandomCodeGenerator struct {
	random io.Reader
}

func NewRandomCodeGenerator() RandomCodeGenerator {
	return RandomCodeGenerator{random: rand.Reader}
}

// NewRandomCodeGeneratorWithSource uses r as the entropy source.
func NewRandomCodeGeneratorWithSource(r io.Reader) RandomCodeGenerator {
	return RandomCodeGenerator{random: r}
}

func (g RandomCodeGenerator) Generate(now time.Time) (TrackingCode, error) {
	n, err := rand.Int(g.random, big.NewInt(trackingCodeRandomSpan))
	if err != nil {
		return TrackingCode{}, fmt.Errorf("tracking code entropy: %w", err)
	}

	suffix := strconv.FormatInt(n.Int64(), 36)
	suffix = strings.Repeat("0", trackingCodeRandomLen-len(suffix)) + suffix
	stamp := strconv.FormatInt(now.UnixMilli(), 36)

	return ParseTrackingCode(trackingCodePrefix + stamp + suffix)
}
