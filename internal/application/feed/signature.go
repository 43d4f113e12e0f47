package feed

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/erp/clerkfeed/internal/domain/feed"
)

// SignatureWindowSeconds is the width of one signing window.
const SignatureWindowSeconds = 100

// MaxWindowTolerance bounds how many past windows a validator may accept.
const MaxWindowTolerance = 5

// SigningContext holds the shared secret used to sign feed requests.
// It never exposes the secret through formatting or serialization.
type SigningContext struct {
	secret []byte
}

// NewSigningContext builds a signing context from the configured secret.
func NewSigningContext(secret string) (*SigningContext, error) {
	if secret == "" {
		return nil, &feed.ConfigurationError{Field: "feed.secret", Reason: "must not be empty"}
	}
	return &SigningContext{secret: []byte(secret)}, nil
}

// String implements fmt.Stringer without revealing the secret.
func (s *SigningContext) String() string {
	return "SigningContext{secret: [REDACTED]}"
}

// GoString implements fmt.GoStringer for %#v.
func (s *SigningContext) GoString() string {
	return s.String()
}

// MarshalJSON keeps the secret out of any JSON dump.
func (s *SigningContext) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// ValidatorOption configures a SignatureValidator
type ValidatorOption func(*SignatureValidator)

// WithWindowTolerance also accepts signatures from the n windows preceding the current one.
func WithWindowTolerance(n int) ValidatorOption {
	return func(v *SignatureValidator) {
		v.tolerance = n
	}
}

// SignatureValidator checks salted, time-windowed SHA-512 request signatures.
//
// A signature is hex(sha512(salt + secret + floor(unix/100))). It is stateless
// and safe for concurrent use.
type SignatureValidator struct {
	signing   *SigningContext
	tolerance int
}

// NewSignatureValidator creates a validator bound to the signing context.
func NewSignatureValidator(signing *SigningContext, opts ...ValidatorOption) (*SignatureValidator, error) {
	if signing == nil {
		return nil, &feed.ConfigurationError{Field: "feed.secret", Reason: "signing context is required"}
	}
	v := &SignatureValidator{signing: signing}
	for _, opt := range opts {
		opt(v)
	}
	if v.tolerance < 0 || v.tolerance > MaxWindowTolerance {
		return nil, &feed.ConfigurationError{
			Field:  "feed.signature_window_tolerance",
			Reason: "must be between 0 and " + strconv.Itoa(MaxWindowTolerance),
		}
	}
	return v, nil
}

// Validate reports whether signature matches the salt for the window containing now.
// Missing salt or signature never validates. The digest is lowercase hex and
// compared byte for byte, so uppercase hex is rejected.
func (v *SignatureValidator) Validate(salt, signature string, now time.Time) bool {
	if salt == "" || signature == "" {
		return false
	}
	current := signingWindow(now)
	matched := 0
	for w := current - int64(v.tolerance); w <= current; w++ {
		expected := v.digest(salt, w)
		// every window is compared so timing does not depend on which one matches
		matched |= subtle.ConstantTimeCompare([]byte(expected), []byte(signature))
	}
	return matched == 1
}

// Sign returns the signature a caller must present for salt at time at.
func (v *SignatureValidator) Sign(salt string, at time.Time) string {
	return v.digest(salt, signingWindow(at))
}

func (v *SignatureValidator) digest(salt string, window int64) string {
	h := sha512.New()
	h.Write([]byte(salt))
	h.Write(v.signing.secret)
	h.Write([]byte(strconv.FormatInt(window, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// signingWindow is floor(unix seconds / 100), rounding toward negative infinity.
func signingWindow(t time.Time) int64 {
	sec := t.Unix()
	w := sec / SignatureWindowSeconds
	if sec%SignatureWindowSeconds < 0 {
		w--
	}
	return w
}
