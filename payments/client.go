package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the gateway's hosted-checkout REST API. It is scoped to a
// single space (the gateway's tenant concept) and authenticates with a bearer
// access token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	spaceID     string
}

var _ CheckoutClient = &Client{}

func NewClient(httpClient *http.Client, baseURL string, accessToken string, spaceID string) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		accessToken: accessToken,
		spaceID:     spaceID,
	}
}

type createSessionRequest struct {
	Reference  string            `json:"reference"`
	Title      string            `json:"title"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (Session, error) {
	body, err := json.Marshal(createSessionRequest{
		Reference:  params.Reference,
		Title:      params.WorkshopTitle,
		Amount:     params.Price.Amount(),
		Currency:   params.Price.Currency().Code,
		SuccessURL: params.SuccessURL,
		CancelURL:  params.CancelURL,
		Metadata:   params.Metadata,
	})
	if err != nil {
		return Session{}, NewGatewayFailureError("Failed to encode checkout session request", err)
	}

	url := fmt.Sprintf("%s/spaces/%s/checkout/sessions", c.baseURL, c.spaceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Session{}, NewGatewayFailureError("Failed to build checkout session request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, NewGatewayFailureError("Checkout session request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Read a bounded amount for the error message; gateway error bodies
		// are small JSON documents.
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Session{}, NewGatewayFailureError(fmt.Sprintf("Gateway returned status %d: %s", resp.StatusCode, errBody), nil)
	}

	var sessionResp createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		return Session{}, NewMalformedResponseError("Failed to decode checkout session response", err)
	}
	if sessionResp.ID == "" || sessionResp.URL == "" {
		return Session{}, NewMalformedResponseError("Checkout session response is missing the id or url", nil)
	}

	return Session{
		ID:  sessionResp.ID,
		URL: sessionResp.URL,
	}, nil
}
