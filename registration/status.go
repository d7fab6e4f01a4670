package registration

import "fmt"

// Status is the registration lifecycle state. It is persisted as a string but
// treated as a closed enum everywhere in the code; unknown stored values are
// rejected on read.
type Status string

const (
	IN_PROGRESS     Status = "in_progress"
	PENDING_PAYMENT Status = "pending_payment"
	COMPLETED       Status = "completed"
	FAILED          Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case IN_PROGRESS, PENDING_PAYMENT, COMPLETED, FAILED:
		return Status(s), nil
	default:
		return "", NewInvalidStatusError(fmt.Sprintf("Unknown registration status: %q", s))
	}
}

// IsTerminal reports whether the status is final. Terminal statuses are
// written only by the payment reconciler and never overwritten.
func (s Status) IsTerminal() bool {
	return s == COMPLETED || s == FAILED
}

func (s Status) String() string {
	return string(s)
}
