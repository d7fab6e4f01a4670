package registration

import "fmt"

type ErrorReason string

const (
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                 ErrorReason = "FAILED_TO_WRITE"
	REASON_REGISTRATION_DOES_NOT_EXIST     ErrorReason = "REGISTRATION_DOES_NOT_EXIST"
	REASON_REGISTRATION_ALREADY_EXISTS     ErrorReason = "REGISTRATION_ALREADY_EXISTS"
	REASON_REGISTRATION_FINALIZED          ErrorReason = "REGISTRATION_FINALIZED"
	REASON_FAILED_TO_FETCH                 ErrorReason = "FAILED_TO_FETCH"
	REASON_INVALID_STATUS                  ErrorReason = "INVALID_STATUS"
	REASON_INVALID_CHECKOUT_REQUEST        ErrorReason = "INVALID_CHECKOUT_REQUEST"
	REASON_CHECKOUT_GATEWAY_FAILED         ErrorReason = "CHECKOUT_GATEWAY_FAILED"
	REASON_FAILED_TO_GENERATE_ID           ErrorReason = "FAILED_TO_GENERATE_ID"
	REASON_UNKNOWN_PAYMENT_EVENT           ErrorReason = "UNKNOWN_PAYMENT_EVENT"
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

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewRegistrationAlreadyExistsError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_ALREADY_EXISTS, message, cause)
}

func NewRegistrationDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_DOES_NOT_EXIST, message, cause)
}

func NewRegistrationFinalizedError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_FINALIZED, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewInvalidStatusError(message string) *Error {
	return newRegistrationError(REASON_INVALID_STATUS, message, nil)
}

func NewInvalidCheckoutRequestError(message string) *Error {
	return newRegistrationError(REASON_INVALID_CHECKOUT_REQUEST, message, nil)
}

func NewCheckoutGatewayError(message string, cause error) *Error {
	return newRegistrationError(REASON_CHECKOUT_GATEWAY_FAILED, message, cause)
}

func NewFailedToGenerateIDError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_GENERATE_ID, message, cause)
}

func NewUnknownPaymentEventError(message string) *Error {
	return newRegistrationError(REASON_UNKNOWN_PAYMENT_EVENT, message, nil)
}
