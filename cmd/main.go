package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bizboost/workshop-registration/api"
	"github.com/bizboost/workshop-registration/dynamo"
	"github.com/bizboost/workshop-registration/payments"
	"github.com/bizboost/workshop-registration/tracking"
)

type config struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"local"`

	DynamoTable string `env:"DYNAMO_TABLE" envDefault:"WorkshopRegistrations"`

	GatewayBaseURL     string `env:"PAYMENT_GATEWAY_URL" envDefault:"https://api.payment-gateway.example"`
	GatewayAccessToken string `env:"PAYMENT_ACCESS_TOKEN"`
	GatewaySpaceID     string `env:"PAYMENT_SPACE_ID"`
	WebhookSecret      string `env:"PAYMENT_WEBHOOK_SECRET"`

	EmailFromAddress string `env:"EMAIL_FROM_ADDRESS" envDefault:"BizBoost Workshops <workshops@bizboost.example>"`

	PublicBaseURL     string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	FrontendReturnURL string   `env:"FRONTEND_RETURN_URL" envDefault:"http://localhost:3000/workshop/confirmation"`
	AllowedOrigins    []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	TrackingEndpoint string `env:"TRACKING_ENDPOINT"`
	TrackingAPIKey   string `env:"TRACKING_API_KEY"`
}

func main() {
	ctx := context.Background()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Fatalf("failed to parse config from env: %s", err)
	}

	environment := api.LOCAL
	if cfg.Env == "prod" {
		environment = api.PROD
	}

	logger := makeLogger(environment)

	// A prod deployment with no signing secret would accept nothing anyway
	// (verification fails closed), so refuse to start instead of silently
	// dropping every webhook.
	if environment == api.PROD && (cfg.WebhookSecret == "" || cfg.GatewayAccessToken == "" || cfg.GatewaySpaceID == "") {
		logger.Error("PAYMENT_WEBHOOK_SECRET, PAYMENT_ACCESS_TOKEN, and PAYMENT_SPACE_ID are required in prod")
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load aws config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	db := dynamo.NewDB(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable)

	emailSender, err := createEmailSender(ctx, logger, environment)
	if err != nil {
		logger.Error("failed to create email sender", slog.String("error", err.Error()))
		os.Exit(1)
	}

	checkouts := payments.NewClient(
		&http.Client{Timeout: 10 * time.Second},
		cfg.GatewayBaseURL,
		cfg.GatewayAccessToken,
		cfg.GatewaySpaceID,
	)

	var tracker tracking.Tracker
	if cfg.TrackingEndpoint != "" {
		tracker = tracking.NewHTTPTracker(&http.Client{Timeout: 5 * time.Second}, cfg.TrackingEndpoint, cfg.TrackingAPIKey)
	} else {
		tracker = tracking.NewLogTracker(logger)
	}

	a := api.NewAPI(db, logger, environment, emailSender, checkouts, tracker, api.Config{
		WebhookSecret:     cfg.WebhookSecret,
		EmailFromAddress:  cfg.EmailFromAddress,
		CheckoutReturnURL: cfg.PublicBaseURL + "/payments/return",
		FrontendReturnURL: cfg.FrontendReturnURL,
		AllowedOrigins:    cfg.AllowedOrigins,
	})

	s := &http.Server{
		Handler: otelhttp.NewHandler(a.Handler(), "workshop-registration"),
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
	}

	logger.Info("starting workshop registration service", slog.String("addr", s.Addr), slog.String("env", string(environment)))
	log.Fatal(s.ListenAndServe())
}

func makeLogger(environment api.Environment) *slog.Logger {
	if environment == api.LOCAL {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
