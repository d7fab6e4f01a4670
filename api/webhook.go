package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bizboost/workshop-registration/payments"
	"github.com/bizboost/workshop-registration/registration"
	"github.com/bizboost/workshop-registration/tracking"
)

type webhookAck struct {
	Received bool `json:"received"`
}

type webhookError struct {
	Error string `json:"error"`
}

// paymentWebhook is the reconciliation entry point. The gateway retries on
// non-2xx statuses, so everything downstream of authentication that cannot be
// fixed by a retry (unknown events, uncorrelated references, email failures)
// is logged and acknowledged with a 200.
func (a *API) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read payment webhook body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	err = payments.VerifySignature(payload, r.Header.Get(payments.SignatureHeader), a.cfg.WebhookSecret)
	if err != nil {
		logger.Warn("Rejected payment webhook with bad signature", slog.String("error", err.Error()))
		a.writeJSON(w, http.StatusUnauthorized, webhookError{Error: "invalid signature"})
		return
	}

	evt, err := payments.ParseEvent(payload)
	if err != nil {
		logger.Warn("Ignoring malformed payment event", slog.String("error", err.Error()))
		a.writeJSON(w, http.StatusOK, webhookAck{Received: true})
		return
	}

	if evt.Class() == payments.ClassUnknown {
		logger.Info("Ignoring unrecognized payment event", slog.String("event", evt.Name))
		a.writeJSON(w, http.StatusOK, webhookAck{Received: true})
		return
	}

	result, err := registration.ApplyPaymentEvent(ctx, a.db, evt)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) && regErr.Reason == registration.REASON_REGISTRATION_DOES_NOT_EXIST {
			// The gateway must never see a retryable error for an event it
			// cannot correlate, or it will redeliver forever.
			logger.Warn("Ignoring payment event with no matching registration",
				slog.String("event", evt.Name),
				slog.String("reference", evt.Reference()),
			)
			a.writeJSON(w, http.StatusOK, webhookAck{Received: true})
			return
		}

		logger.Error("Failed to reconcile payment event", slog.String("error", err.Error()))
		a.writeJSON(w, http.StatusInternalServerError, webhookError{Error: "failed to process event"})
		return
	}

	if !result.Applied {
		logger.Info("Payment event redelivered for already-terminal registration",
			slog.String("registration-id", result.Registration.ID),
			slog.String("status", result.Registration.Status.String()),
		)
		a.writeJSON(w, http.StatusOK, webhookAck{Received: true})
		return
	}

	a.dispatchOutcomeSideEffects(r, result)

	a.writeJSON(w, http.StatusOK, webhookAck{Received: true})
}

// dispatchOutcomeSideEffects sends the one email (and conversion event) owed
// for a transition that actually changed status. The financial state is
// already committed, so failures here are logged and never surfaced back to
// the gateway.
func (a *API) dispatchOutcomeSideEffects(r *http.Request, result registration.ReconcileResult) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)
	reg := result.Registration

	var err error
	switch result.Outcome {
	case registration.COMPLETED:
		err = registration.SendConfirmationEmail(ctx, a.emailSender, a.cfg.EmailFromAddress, reg)
	case registration.FAILED:
		err = registration.SendPaymentFailedEmail(ctx, a.emailSender, a.cfg.EmailFromAddress, reg)
	}
	if err != nil {
		logger.Error("Failed to send payment outcome email",
			slog.String("error", err.Error()),
			slog.String("registration-id", reg.ID),
			slog.String("email", reg.RecipientEmail()),
		)
	}

	if result.Outcome != registration.COMPLETED {
		return
	}

	err = a.tracker.Track(ctx, tracking.Event{
		Name:           tracking.EventPaymentConversion,
		RegistrationID: reg.ID,
		Properties: map[string]string{
			"workshop": reg.WorkshopTitle,
		},
	})
	if err != nil {
		logger.Warn("Failed to track payment conversion",
			slog.String("error", err.Error()),
			slog.String("registration-id", reg.ID),
		)
	}
}
