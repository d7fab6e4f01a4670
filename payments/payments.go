// Package payments is the narrow contract with the external payment gateway:
// creating hosted checkout sessions and authenticating + classifying the
// webhook events the gateway delivers back.
package payments

import (
	"context"

	"github.com/Rhymond/go-money"
)

// MetadataRegistrationID is the metadata key the checkout initiator attaches
// so webhook events can fall back to metadata when the reference is absent.
const MetadataRegistrationID = "registration_id"

type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (Session, error)
}

type CreateSessionParams struct {
	// Reference is echoed back on webhook events for correlation.
	Reference     string
	WorkshopTitle string
	Price         *money.Money
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the local representation of a gateway-hosted checkout: only its
// identifier and the redirect URL, nothing else is persisted.
type Session struct {
	ID  string
	URL string
}
