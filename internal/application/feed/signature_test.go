package feed

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cr3t-feed-key"

func newTestValidator(t *testing.T, opts ...ValidatorOption) *SignatureValidator {
	t.Helper()
	signing, err := NewSigningContext(testSecret)
	require.NoError(t, err)
	v, err := NewSignatureValidator(signing, opts...)
	require.NoError(t, err)
	return v
}

func referenceSignature(salt string, at time.Time) string {
	sum := sha512.Sum512([]byte(salt + testSecret + fmt.Sprint(at.Unix()/100)))
	return hex.EncodeToString(sum[:])
}

func TestNewSigningContext(t *testing.T) {
	t.Run("empty secret is a configuration error", func(t *testing.T) {
		_, err := NewSigningContext("")
		var cfgErr *feed.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "feed.secret", cfgErr.Field)
	})

	t.Run("secret never appears in formatted output", func(t *testing.T) {
		signing, err := NewSigningContext(testSecret)
		require.NoError(t, err)

		assert.NotContains(t, fmt.Sprintf("%v", signing), testSecret)
		assert.NotContains(t, fmt.Sprintf("%+v", signing), testSecret)
		assert.NotContains(t, fmt.Sprintf("%#v", signing), testSecret)

		data, err := json.Marshal(struct{ Signing *SigningContext }{signing})
		require.NoError(t, err)
		assert.NotContains(t, string(data), testSecret)
	})
}

func TestSignatureValidator_Validate(t *testing.T) {
	v := newTestValidator(t)
	now := time.Unix(1_700_000_050, 0)
	salt := "a1b2c3"

	t.Run("accepts the signature for the current window", func(t *testing.T) {
		assert.True(t, v.Validate(salt, referenceSignature(salt, now), now))
	})

	t.Run("same window different second", func(t *testing.T) {
		later := time.Unix(1_700_000_099, 0)
		assert.True(t, v.Validate(salt, referenceSignature(salt, now), later))
	})

	t.Run("rejects the previous window with zero tolerance", func(t *testing.T) {
		next := now.Add(SignatureWindowSeconds * time.Second)
		assert.False(t, v.Validate(salt, referenceSignature(salt, now), next))
	})

	t.Run("rejects wrong salt", func(t *testing.T) {
		assert.False(t, v.Validate("other", referenceSignature(salt, now), now))
	})

	t.Run("rejects signature made with another secret", func(t *testing.T) {
		sum := sha512.Sum512([]byte(salt + "wrong" + fmt.Sprint(now.Unix()/100)))
		assert.False(t, v.Validate(salt, hex.EncodeToString(sum[:]), now))
	})

	t.Run("rejects missing salt or signature", func(t *testing.T) {
		assert.False(t, v.Validate("", referenceSignature("", now), now))
		assert.False(t, v.Validate(salt, "", now))
	})

	t.Run("rejects truncated signature", func(t *testing.T) {
		sig := referenceSignature(salt, now)
		assert.False(t, v.Validate(salt, sig[:len(sig)-1], now))
	})

	t.Run("hex digest is matched lowercase only", func(t *testing.T) {
		sig := referenceSignature(salt, now)
		require.Equal(t, strings.ToLower(sig), sig)
		assert.False(t, v.Validate(salt, strings.ToUpper(sig), now))
	})
}

func TestSignatureValidator_WindowTolerance(t *testing.T) {
	v := newTestValidator(t, WithWindowTolerance(1))
	signedAt := time.Unix(1_700_000_050, 0)
	salt := "xyz"
	sig := referenceSignature(salt, signedAt)

	assert.True(t, v.Validate(salt, sig, signedAt))
	assert.True(t, v.Validate(salt, sig, signedAt.Add(100*time.Second)))
	assert.False(t, v.Validate(salt, sig, signedAt.Add(200*time.Second)))
	assert.False(t, v.Validate(salt, sig, signedAt.Add(-100*time.Second)))
}

func TestNewSignatureValidator_InvalidTolerance(t *testing.T) {
	signing, err := NewSigningContext(testSecret)
	require.NoError(t, err)

	for _, n := range []int{-1, MaxWindowTolerance + 1} {
		_, err := NewSignatureValidator(signing, WithWindowTolerance(n))
		var cfgErr *feed.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "tolerance %d", n)
	}

	_, err = NewSignatureValidator(nil)
	assert.Error(t, err)
}

func TestSignatureValidator_Sign(t *testing.T) {
	v := newTestValidator(t)
	at := time.Unix(1_600_000_000, 0)

	sig := v.Sign("salt", at)
	assert.Equal(t, referenceSignature("salt", at), sig)
	assert.Len(t, sig, 128)
	assert.True(t, v.Validate("salt", sig, at))
}

func TestSigningWindow(t *testing.T) {
	assert.Equal(t, int64(17_000_000), signingWindow(time.Unix(1_700_000_099, 0)))
	assert.Equal(t, int64(0), signingWindow(time.Unix(99, 0)))
	assert.Equal(t, int64(-1), signingWindow(time.Unix(-1, 0)))
}
