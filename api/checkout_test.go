package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizboost/workshop-registration/payments"
	"github.com/bizboost/workshop-registration/registration"
)

func TestCreateCheckoutHandler(t *testing.T) {
	body := `{
		"registrationId": "abc123def456",
		"workshopTitle": "Grow Your Shop",
		"workshopPrice": 10000,
		"currency": "USD"
	}`

	t.Run("returns the hosted checkout page", func(t *testing.T) {
		var sessionParams payments.CreateSessionParams
		checkouts := &mockCheckoutClient{
			CreateCheckoutSessionFunc: func(ctx context.Context, params payments.CreateSessionParams) (payments.Session, error) {
				sessionParams = params
				return payments.Session{ID: "cs_123", URL: "https://checkout.gateway.example/cs_123"}, nil
			},
		}
		a := newTestAPI(&mockDB{}, &mockEmailSender{}, checkouts, &mockTracker{})

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		w := httptest.NewRecorder()

		a.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp createCheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "https://checkout.gateway.example/cs_123", resp.CheckoutURL)
		assert.Equal(t, "cs_123", resp.SessionID)

		assert.Equal(t, "abc123def456", sessionParams.Reference)
		assert.Contains(t, sessionParams.SuccessURL, "https://api.bizboost.example/payments/return")
	})

	t.Run("rejects a request without a price", func(t *testing.T) {
		a := newTestAPI(&mockDB{}, &mockEmailSender{}, &mockCheckoutClient{}, &mockTracker{})

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{
			"registrationId": "abc123def456",
			"workshopTitle": "Grow Your Shop"
		}`))
		w := httptest.NewRecorder()

		a.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404s when the registration does not exist", func(t *testing.T) {
		db := &mockDB{
			GetRegistrationFunc: func(ctx context.Context, id string) (registration.Registration, error) {
				return registration.Registration{}, registration.NewRegistrationDoesNotExistError("nope", nil)
			},
		}
		a := newTestAPI(db, &mockEmailSender{}, &mockCheckoutClient{}, &mockTracker{})

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		w := httptest.NewRecorder()

		a.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("conflicts when the registration already has an outcome", func(t *testing.T) {
		db := &mockDB{
			GetRegistrationFunc: func(ctx context.Context, id string) (registration.Registration, error) {
				return registration.Registration{ID: id, Status: registration.COMPLETED}, nil
			},
		}
		a := newTestAPI(db, &mockEmailSender{}, &mockCheckoutClient{}, &mockTracker{})

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		w := httptest.NewRecorder()

		a.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("maps gateway failures to a 502", func(t *testing.T) {
		checkouts := &mockCheckoutClient{
			CreateCheckoutSessionFunc: func(ctx context.Context, params payments.CreateSessionParams) (payments.Session, error) {
				return payments.Session{}, payments.NewGatewayFailureError("gateway returned status 500", nil)
			},
		}
		attachCalled := false
		db := &mockDB{
			AttachCheckoutSessionFunc: func(ctx context.Context, id string, sessionID string) (registration.Registration, error) {
				attachCalled = true
				return registration.Registration{}, nil
			},
		}
		a := newTestAPI(db, &mockEmailSender{}, checkouts, &mockTracker{})

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		w := httptest.NewRecorder()

		a.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.False(t, attachCalled)
	})
}
