package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/International-Combat-Archery-Alliance/email"

	"github.com/bizboost/workshop-registration/payments"
	"github.com/bizboost/workshop-registration/registration"
	"github.com/bizboost/workshop-registration/tracking"
)

var noopLogger = slog.New(slog.DiscardHandler)

type mockDB struct {
	CreateRegistrationFunc         func(ctx context.Context, reg registration.Registration) error
	UpdateRegistrationFunc         func(ctx context.Context, reg registration.Registration) (registration.Registration, error)
	GetRegistrationFunc            func(ctx context.Context, id string) (registration.Registration, error)
	GetRegistrationBySessionIDFunc func(ctx context.Context, sessionID string) (registration.Registration, error)
	AttachCheckoutSessionFunc      func(ctx context.Context, id string, sessionID string) (registration.Registration, error)
	ApplyTerminalStatusFunc        func(ctx context.Context, id string, target registration.Status, paymentStatus string, at time.Time) (registration.Registration, bool, error)
}

func (m *mockDB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	if m.CreateRegistrationFunc != nil {
		return m.CreateRegistrationFunc(ctx, reg)
	}
	return nil
}

func (m *mockDB) UpdateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, error) {
	if m.UpdateRegistrationFunc != nil {
		return m.UpdateRegistrationFunc(ctx, reg)
	}
	return reg, nil
}

func (m *mockDB) GetRegistration(ctx context.Context, id string) (registration.Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, id)
	}
	return registration.Registration{ID: id, Status: registration.IN_PROGRESS}, nil
}

func (m *mockDB) GetRegistrationBySessionID(ctx context.Context, sessionID string) (registration.Registration, error) {
	if m.GetRegistrationBySessionIDFunc != nil {
		return m.GetRegistrationBySessionIDFunc(ctx, sessionID)
	}
	return registration.Registration{}, registration.NewRegistrationDoesNotExistError("not found", nil)
}

func (m *mockDB) AttachCheckoutSession(ctx context.Context, id string, sessionID string) (registration.Registration, error) {
	if m.AttachCheckoutSessionFunc != nil {
		return m.AttachCheckoutSessionFunc(ctx, id, sessionID)
	}
	return registration.Registration{ID: id, Status: registration.PENDING_PAYMENT, CheckoutSessionID: sessionID}, nil
}

func (m *mockDB) ApplyTerminalStatus(ctx context.Context, id string, target registration.Status, paymentStatus string, at time.Time) (registration.Registration, bool, error) {
	if m.ApplyTerminalStatusFunc != nil {
		return m.ApplyTerminalStatusFunc(ctx, id, target, paymentStatus, at)
	}
	return registration.Registration{
		ID:            id,
		Status:        target,
		PaymentStatus: paymentStatus,
		PersonalEmail: "ama@example.com",
		WorkshopTitle: "Grow Your Shop",
		WorkshopPrice: 10000,
	}, true, nil
}

type mockEmailSender struct {
	SendEmailFunc func(ctx context.Context, e email.Email) error

	sent []email.Email
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, e)
	}
	m.sent = append(m.sent, e)
	return nil
}

type mockCheckoutClient struct {
	CreateCheckoutSessionFunc func(ctx context.Context, params payments.CreateSessionParams) (payments.Session, error)
}

func (m *mockCheckoutClient) CreateCheckoutSession(ctx context.Context, params payments.CreateSessionParams) (payments.Session, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, params)
	}
	return payments.Session{ID: "cs_123", URL: "https://checkout.gateway.example/cs_123"}, nil
}

type mockTracker struct {
	TrackFunc func(ctx context.Context, event tracking.Event) error

	tracked []tracking.Event
}

func (m *mockTracker) Track(ctx context.Context, event tracking.Event) error {
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, event)
	}
	m.tracked = append(m.tracked, event)
	return nil
}

func newTestAPI(db DB, emailSender email.Sender, checkouts payments.CheckoutClient, tracker tracking.Tracker) *API {
	return NewAPI(db, noopLogger, LOCAL, emailSender, checkouts, tracker, Config{
		WebhookSecret:     "whsec_test_secret",
		EmailFromAddress:  "workshops@bizboost.example",
		CheckoutReturnURL: "https://api.bizboost.example/payments/return",
		FrontendReturnURL: "https://bizboost.example/workshops/thanks",
	})
}
