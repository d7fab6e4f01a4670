package payments

import "fmt"

type ErrorReason string

const (
	REASON_INVALID_SIGNATURE  ErrorReason = "INVALID_SIGNATURE"
	REASON_MALFORMED_EVENT    ErrorReason = "MALFORMED_EVENT"
	REASON_GATEWAY_FAILURE    ErrorReason = "GATEWAY_FAILURE"
	REASON_MALFORMED_RESPONSE ErrorReason = "MALFORMED_RESPONSE"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newPaymentsError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewInvalidSignatureError(message string, cause error) *Error {
	return newPaymentsError(REASON_INVALID_SIGNATURE, message, cause)
}

func NewMalformedEventError(message string, cause error) *Error {
	return newPaymentsError(REASON_MALFORMED_EVENT, message, cause)
}

func NewGatewayFailureError(message string, cause error) *Error {
	return newPaymentsError(REASON_GATEWAY_FAILURE, message, cause)
}

func NewMalformedResponseError(message string, cause error) *Error {
	return newPaymentsError(REASON_MALFORMED_RESPONSE, message, cause)
}
