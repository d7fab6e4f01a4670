package registration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts every lifecycle status", func(t *testing.T) {
		for _, s := range []string{"in_progress", "pending_payment", "completed", "failed"} {
			parsed, err := ParseStatus(s)
			assert.NoError(t, err)
			assert.Equal(t, s, parsed.String())
		}
	})

	t.Run("rejects unknown stored values", func(t *testing.T) {
		_, err := ParseStatus("paid_maybe")

		assert.Error(t, err)
		var regErr *Error
		assert.True(t, errors.As(err, &regErr))
		assert.Equal(t, REASON_INVALID_STATUS, regErr.Reason)
	})
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, IN_PROGRESS.IsTerminal())
	assert.False(t, PENDING_PAYMENT.IsTerminal())
	assert.True(t, COMPLETED.IsTerminal())
	assert.True(t, FAILED.IsTerminal())
}
