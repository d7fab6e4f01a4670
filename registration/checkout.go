package registration

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Rhymond/go-money"
	"github.com/bizboost/workshop-registration/payments"
)

type CheckoutRequest struct {
	RegistrationID string
	WorkshopTitle  string
	// Price is in minor currency units.
	Price    int64
	Currency string
}

type CheckoutResult struct {
	Registration Registration
	SessionID    string
	// RedirectURL is the gateway-hosted checkout page for the browser.
	RedirectURL string
}

// StartCheckout opens a hosted checkout session for a registration. The
// registration identifier travels as the gateway reference so the webhook
// reconciler can correlate the outcome later. Retrying checkout overwrites
// the previously stored session id; the registration is left untouched when
// the gateway call fails.
func StartCheckout(ctx context.Context, repo Repository, checkouts payments.CheckoutClient, returnURL string, req CheckoutRequest) (CheckoutResult, error) {
	if req.RegistrationID == "" {
		return CheckoutResult{}, NewInvalidCheckoutRequestError("Registration ID is required to start checkout")
	}
	if req.Price <= 0 {
		return CheckoutResult{}, NewInvalidCheckoutRequestError("Workshop price must be a positive amount in minor units")
	}

	reg, err := repo.GetRegistration(ctx, req.RegistrationID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if reg.Status.IsTerminal() {
		return CheckoutResult{}, NewRegistrationFinalizedError(fmt.Sprintf("Registration %q already has outcome %q", reg.ID, reg.Status), nil)
	}

	currency := req.Currency
	if currency == "" {
		currency = reg.PriceCurrency()
	}

	session, err := checkouts.CreateCheckoutSession(ctx, payments.CreateSessionParams{
		Reference:     reg.ID,
		WorkshopTitle: req.WorkshopTitle,
		Price:         money.New(req.Price, currency),
		SuccessURL:    outcomeReturnURL(returnURL, reg.ID, "success"),
		CancelURL:     outcomeReturnURL(returnURL, reg.ID, "cancelled"),
		Metadata: map[string]string{
			payments.MetadataRegistrationID: reg.ID,
		},
	})
	if err != nil {
		return CheckoutResult{}, NewCheckoutGatewayError(fmt.Sprintf("Failed to create checkout session for registration %q", reg.ID), err)
	}

	updated, err := repo.AttachCheckoutSession(ctx, reg.ID, session.ID)
	if err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		Registration: updated,
		SessionID:    session.ID,
		RedirectURL:  session.URL,
	}, nil
}

func outcomeReturnURL(base string, registrationID string, outcome string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	q.Set("registration", registrationID)
	q.Set("status", outcome)
	u.RawQuery = q.Encode()

	return u.String()
}
