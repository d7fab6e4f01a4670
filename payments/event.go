package payments

import "encoding/json"

type EventClass int

const (
	ClassUnknown EventClass = iota
	ClassSuccess
	ClassFailure
)

const (
	EventCheckoutCompleted = "checkout_session.completed"
	EventCheckoutExpired   = "checkout_session.expired"
	EventCheckoutFailed    = "checkout_session.failed"
)

// Event is a transient gateway notification. It is consumed once to produce a
// state transition (or be ignored) and is never persisted verbatim.
type Event struct {
	Name string    `json:"event"`
	Data EventData `json:"data"`
}

type EventData struct {
	SessionID string            `json:"id"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata"`
}

func ParseEvent(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, NewMalformedEventError("Failed to decode payment event body", err)
	}
	if evt.Name == "" {
		return Event{}, NewMalformedEventError("Payment event has no event name", nil)
	}

	return evt, nil
}

// Class maps the event name to a payment outcome. Names outside the closed
// set are ClassUnknown and must be acknowledged without any state change.
func (e Event) Class() EventClass {
	switch e.Name {
	case EventCheckoutCompleted:
		return ClassSuccess
	case EventCheckoutExpired, EventCheckoutFailed:
		return ClassFailure
	default:
		return ClassUnknown
	}
}

// Reference is the registration identifier carried by the event: the explicit
// reference field when set, otherwise the metadata fallback.
func (e Event) Reference() string {
	if e.Data.Reference != "" {
		return e.Data.Reference
	}

	return e.Data.Metadata[MetadataRegistrationID]
}
