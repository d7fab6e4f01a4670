package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizboost/workshop-registration/registration"
)

type ErrorCode string

const (
	InvalidRequest   ErrorCode = "InvalidRequest"
	NotFound         ErrorCode = "NotFound"
	AlreadyFinalized ErrorCode = "AlreadyFinalized"
	GatewayError     ErrorCode = "GatewayError"
	AuthError        ErrorCode = "AuthError"
	InternalError    ErrorCode = "InternalError"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("Failed to marshal response body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (a *API) writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	a.writeJSON(w, status, Error{Code: code, Message: message})
}

// writeRegistrationError maps a domain error onto the HTTP error taxonomy.
func (a *API) writeRegistrationError(w http.ResponseWriter, err error) {
	var regErr *registration.Error
	if errors.As(err, &regErr) {
		switch regErr.Reason {
		case registration.REASON_REGISTRATION_DOES_NOT_EXIST:
			a.writeError(w, http.StatusNotFound, NotFound, "Registration was not found")
			return
		case registration.REASON_REGISTRATION_FINALIZED:
			a.writeError(w, http.StatusConflict, AlreadyFinalized, "Registration already has a payment outcome")
			return
		case registration.REASON_INVALID_STATUS, registration.REASON_INVALID_CHECKOUT_REQUEST:
			a.writeError(w, http.StatusBadRequest, InvalidRequest, regErr.Message)
			return
		case registration.REASON_CHECKOUT_GATEWAY_FAILED:
			a.writeError(w, http.StatusBadGateway, GatewayError, "Payment gateway failed to create a checkout session")
			return
		}
	}

	a.writeError(w, http.StatusInternalServerError, InternalError, "Internal server error")
}
