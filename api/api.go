package api

import (
	"log/slog"
	"net/http"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/go-playground/validator/v10"

	"github.com/bizboost/workshop-registration/payments"
	"github.com/bizboost/workshop-registration/registration"
	"github.com/bizboost/workshop-registration/tracking"
)

type Environment string

const (
	LOCAL Environment = "local"
	PROD  Environment = "prod"
)

type DB interface {
	registration.Repository
}

// Config carries the externally-configured values the handlers depend on.
// The webhook secret in particular is injected here, never read from the
// process environment inside a handler, so tests can supply a fixed secret.
type Config struct {
	WebhookSecret string
	// EmailFromAddress like "BizBoost Workshops <workshops@example.com>".
	EmailFromAddress string
	// CheckoutReturnURL is this service's own return endpoint, handed to the
	// gateway as the success/cancel destination.
	CheckoutReturnURL string
	// FrontendReturnURL is the user-facing confirmation page the return
	// handler redirects to.
	FrontendReturnURL string
	AllowedOrigins    []string
}

type API struct {
	db          DB
	logger      *slog.Logger
	env         Environment
	emailSender email.Sender
	checkouts   payments.CheckoutClient
	tracker     tracking.Tracker
	cfg         Config
	validate    *validator.Validate
}

func NewAPI(db DB, logger *slog.Logger, env Environment, emailSender email.Sender, checkouts payments.CheckoutClient, tracker tracking.Tracker, cfg Config) *API {
	return &API{
		db:          db,
		logger:      logger,
		env:         env,
		emailSender: emailSender,
		checkouts:   checkouts,
		tracker:     tracker,
		cfg:         cfg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) Handler() http.Handler {
	r := http.NewServeMux()

	r.HandleFunc("POST /registrations", a.saveRegistration)
	r.HandleFunc("GET /registrations", a.getRegistration)
	r.HandleFunc("POST /checkout", a.createCheckout)
	r.HandleFunc("POST /payments/webhook", a.paymentWebhook)
	r.HandleFunc("GET /payments/return", a.paymentReturn)
	r.HandleFunc("POST /payments/return", a.paymentReturn)

	return useMiddlewares(r,
		a.corsMiddleware(),
		a.loggingMiddleware(),
		a.requestIDMiddleware(),
	)
}
