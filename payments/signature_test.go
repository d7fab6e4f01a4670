package payments

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedHeader(payload []byte, secret string, at time.Time) string {
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), ComputeSignature(payload, secret, at.Unix()))
}

func assertInvalidSignature(t *testing.T, err error) {
	t.Helper()

	require.Error(t, err)
	var payErr *Error
	require.True(t, errors.As(err, &payErr))
	assert.Equal(t, REASON_INVALID_SIGNATURE, payErr.Reason)
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"event":"checkout_session.completed","data":{"id":"cs_123"}}`)
	secret := "whsec_test_secret"
	now := time.Unix(1756600000, 0)

	t.Run("accepts a correctly signed payload", func(t *testing.T) {
		err := verifySignatureAt(payload, signedHeader(payload, secret, now), secret, now)

		assert.NoError(t, err)
	})

	t.Run("accepts a signature inside the tolerance window", func(t *testing.T) {
		signedAt := now.Add(-4 * time.Minute)

		err := verifySignatureAt(payload, signedHeader(payload, secret, signedAt), secret, now)

		assert.NoError(t, err)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		tampered := []byte(`{"event":"checkout_session.completed","data":{"id":"cs_999"}}`)

		err := verifySignatureAt(tampered, signedHeader(payload, secret, now), secret, now)

		assertInvalidSignature(t, err)
	})

	t.Run("rejects a signature made with another secret", func(t *testing.T) {
		err := verifySignatureAt(payload, signedHeader(payload, "someone-elses-secret", now), secret, now)

		assertInvalidSignature(t, err)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		err := verifySignatureAt(payload, "", secret, now)

		assertInvalidSignature(t, err)
	})

	t.Run("rejects when no secret is configured", func(t *testing.T) {
		err := verifySignatureAt(payload, signedHeader(payload, secret, now), "", now)

		assertInvalidSignature(t, err)
	})

	t.Run("rejects a stale timestamp", func(t *testing.T) {
		signedAt := now.Add(-6 * time.Minute)

		err := verifySignatureAt(payload, signedHeader(payload, secret, signedAt), secret, now)

		assertInvalidSignature(t, err)
	})

	t.Run("rejects a timestamp from the future", func(t *testing.T) {
		signedAt := now.Add(6 * time.Minute)

		err := verifySignatureAt(payload, signedHeader(payload, secret, signedAt), secret, now)

		assertInvalidSignature(t, err)
	})

	t.Run("rejects malformed headers", func(t *testing.T) {
		for _, header := range []string{
			"v1=deadbeef",
			fmt.Sprintf("t=%d", now.Unix()),
			"t=notanumber,v1=deadbeef",
			"garbage",
		} {
			err := verifySignatureAt(payload, header, secret, now)

			assertInvalidSignature(t, err)
		}
	})

	t.Run("tolerates whitespace around header components", func(t *testing.T) {
		header := fmt.Sprintf("t=%d, v1=%s", now.Unix(), ComputeSignature(payload, secret, now.Unix()))

		err := verifySignatureAt(payload, header, secret, now)

		assert.NoError(t, err)
	})
}
