package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bizboost/workshop-registration/registration"
)

type createCheckoutRequest struct {
	RegistrationID string `json:"registrationId" validate:"required"`
	WorkshopTitle  string `json:"workshopTitle" validate:"required"`
	// WorkshopPrice is already in minor currency units.
	WorkshopPrice int64  `json:"workshopPrice" validate:"required,gt=0"`
	Currency      string `json:"currency" validate:"omitempty,iso4217"`
}

type createCheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
}

func (a *API) createCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid body for checkout creation", slog.String("error", err.Error()))
		a.writeError(w, http.StatusBadRequest, InvalidRequest, "Body must be a valid checkout JSON document")
		return
	}

	if err := a.validate.Struct(req); err != nil {
		logger.Warn("Checkout creation failed validation", slog.String("error", err.Error()))
		a.writeError(w, http.StatusBadRequest, InvalidRequest, err.Error())
		return
	}

	result, err := registration.StartCheckout(ctx, a.db, a.checkouts, a.cfg.CheckoutReturnURL, registration.CheckoutRequest{
		RegistrationID: req.RegistrationID,
		WorkshopTitle:  req.WorkshopTitle,
		Price:          req.WorkshopPrice,
		Currency:       req.Currency,
	})
	if err != nil {
		logger.Error("Failed to start checkout",
			slog.String("registration-id", req.RegistrationID),
			slog.String("error", err.Error()),
		)
		a.writeRegistrationError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, createCheckoutResponse{
		CheckoutURL: result.RedirectURL,
		SessionID:   result.SessionID,
	})
}
