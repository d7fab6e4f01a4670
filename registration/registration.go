package registration

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Repository is the persistence contract for workshop registrations.
// Create and Update are used by the form writer, AttachCheckoutSession by the
// checkout initiator, and ApplyTerminalStatus exclusively by the payment
// reconciler.
type Repository interface {
	CreateRegistration(ctx context.Context, reg Registration) error
	// UpdateRegistration replaces the mutable fields present on reg (zero
	// values are left untouched) and returns the stored record.
	UpdateRegistration(ctx context.Context, reg Registration) (Registration, error)
	GetRegistration(ctx context.Context, id string) (Registration, error)
	GetRegistrationBySessionID(ctx context.Context, sessionID string) (Registration, error)
	// AttachCheckoutSession overwrites any previously stored session id and
	// moves the registration to pending_payment.
	AttachCheckoutSession(ctx context.Context, id string, sessionID string) (Registration, error)
	// ApplyTerminalStatus transitions the registration to target only if the
	// current status is not already terminal. Returns the stored record and
	// whether the transition was applied.
	ApplyTerminalStatus(ctx context.Context, id string, target Status, paymentStatus string, at time.Time) (Registration, bool, error)
}

// Registration is a single workshop sign-up, tracked from the first form
// autosave through the payment outcome.
type Registration struct {
	ID string

	FirstName     string
	LastName      string
	PersonalEmail string
	BusinessEmail string
	Phone         string
	CountryCode   string

	BusinessName    string
	Website         string
	Snapshot        string
	TargetCustomers string
	YearsOperating  string
	Goal            string

	ReferralSource string
	ReferralOther  string

	WorkshopTitle string
	// WorkshopPrice is in minor currency units.
	WorkshopPrice int64
	Currency      string

	CurrentStep int
	Status      Status
	SubmittedAt *time.Time

	CheckoutSessionID string

	PaymentStatus      string
	PaymentCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	RequestIP string
	UserAgent string
}

// RecipientEmail is the address confirmation and failure notices go to.
// Personal email wins when both were collected.
func (r Registration) RecipientEmail() string {
	if r.PersonalEmail != "" {
		return r.PersonalEmail
	}
	return r.BusinessEmail
}

func (r Registration) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", r.FirstName, r.LastName))
}

// PriceCurrency falls back to USD for records saved before the currency
// step was reached.
func (r Registration) PriceCurrency() string {
	if r.Currency != "" {
		return r.Currency
	}
	return "USD"
}
