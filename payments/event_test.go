package payments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	t.Run("decodes a checkout event", func(t *testing.T) {
		evt, err := ParseEvent([]byte(`{
			"event": "checkout_session.completed",
			"data": {
				"id": "cs_123",
				"reference": "abc123def456",
				"metadata": {"registration_id": "abc123def456"}
			}
		}`))

		require.NoError(t, err)
		assert.Equal(t, EventCheckoutCompleted, evt.Name)
		assert.Equal(t, "cs_123", evt.Data.SessionID)
		assert.Equal(t, "abc123def456", evt.Data.Reference)
	})

	t.Run("rejects bodies that are not JSON", func(t *testing.T) {
		_, err := ParseEvent([]byte("not json"))

		require.Error(t, err)
		var payErr *Error
		require.True(t, errors.As(err, &payErr))
		assert.Equal(t, REASON_MALFORMED_EVENT, payErr.Reason)
	})

	t.Run("rejects events with no name", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"data":{"id":"cs_123"}}`))

		require.Error(t, err)
		var payErr *Error
		require.True(t, errors.As(err, &payErr))
		assert.Equal(t, REASON_MALFORMED_EVENT, payErr.Reason)
	})
}

func TestEventClass(t *testing.T) {
	assert.Equal(t, ClassSuccess, Event{Name: EventCheckoutCompleted}.Class())
	assert.Equal(t, ClassFailure, Event{Name: EventCheckoutExpired}.Class())
	assert.Equal(t, ClassFailure, Event{Name: EventCheckoutFailed}.Class())
	assert.Equal(t, ClassUnknown, Event{Name: "invoice.created"}.Class())
	assert.Equal(t, ClassUnknown, Event{}.Class())
}

func TestEventReference(t *testing.T) {
	t.Run("prefers the explicit reference", func(t *testing.T) {
		evt := Event{Data: EventData{
			Reference: "abc123def456",
			Metadata:  map[string]string{MetadataRegistrationID: "other0000000"},
		}}

		assert.Equal(t, "abc123def456", evt.Reference())
	})

	t.Run("falls back to metadata", func(t *testing.T) {
		evt := Event{Data: EventData{
			Metadata: map[string]string{MetadataRegistrationID: "abc123def456"},
		}}

		assert.Equal(t, "abc123def456", evt.Reference())
	})

	t.Run("empty when neither is present", func(t *testing.T) {
		assert.Equal(t, "", Event{}.Reference())
	})
}
