package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizboost/workshop-registration/payments"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/bizboost/workshop-registration/registration")

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "payment_failed"
)

type ReconcileResult struct {
	Registration Registration
	// Applied is false when the registration was already terminal and the
	// event was a redelivery; callers must not send email in that case.
	Applied bool
	Outcome Status
}

// ApplyPaymentEvent performs the terminal state transition for a classified
// payment event. It is the only writer of COMPLETED and FAILED statuses.
// The transition is conditional in the store, so a racing or redelivered
// webhook observes Applied == false instead of double-applying.
func ApplyPaymentEvent(ctx context.Context, repo Repository, evt payments.Event) (ReconcileResult, error) {
	ctx, span := tracer.Start(ctx, "registration.ApplyPaymentEvent",
		trace.WithAttributes(attribute.String("payment.event.name", evt.Name)))
	defer span.End()

	var target Status
	var paymentStatus string
	switch evt.Class() {
	case payments.ClassSuccess:
		target = COMPLETED
		paymentStatus = PaymentStatusPaid
	case payments.ClassFailure:
		target = FAILED
		paymentStatus = PaymentStatusFailed
	default:
		return ReconcileResult{}, NewUnknownPaymentEventError(fmt.Sprintf("Event %q does not map to a payment outcome", evt.Name))
	}

	reg, err := correlateRegistration(ctx, repo, evt)
	if err != nil {
		return ReconcileResult{}, err
	}

	updated, applied, err := repo.ApplyTerminalStatus(ctx, reg.ID, target, paymentStatus, time.Now())
	if err != nil {
		return ReconcileResult{}, err
	}

	span.SetAttributes(
		attribute.Bool("payment.transition.applied", applied),
		attribute.String("payment.outcome", target.String()),
	)

	return ReconcileResult{
		Registration: updated,
		Applied:      applied,
		Outcome:      target,
	}, nil
}

// correlateRegistration prefers the event reference (the registration id the
// checkout initiator handed to the gateway) and falls back to the stored
// checkout session id.
func correlateRegistration(ctx context.Context, repo Repository, evt payments.Event) (Registration, error) {
	if ref := evt.Reference(); ref != "" {
		reg, err := repo.GetRegistration(ctx, ref)
		if err == nil {
			return reg, nil
		}

		var regErr *Error
		if !errors.As(err, &regErr) || regErr.Reason != REASON_REGISTRATION_DOES_NOT_EXIST {
			return Registration{}, err
		}
	}

	if evt.Data.SessionID != "" {
		return repo.GetRegistrationBySessionID(ctx, evt.Data.SessionID)
	}

	return Registration{}, NewRegistrationDoesNotExistError("Payment event carries no reference or session id that maps to a registration", nil)
}
