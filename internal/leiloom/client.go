// Package leiloom is the thin client for the internal Leiloom REST
// backend: listing the auction tree the map feeds on and forwarding
// approved payment notifications. No business logic lives here.
package leiloom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leiloom/map-service/internal/models"
)

// Client talks to the Leiloom backend API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, log *slog.Logger) *Client {
	const timeout = 10
	return &Client{
		httpClient: &http.Client{Timeout: timeout * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// apiError is the backend's normalized error body.
type apiError struct {
	Message string `json:"message"`
}

// ListAuctions fetches the full auction → lot → item tree.
func (c *Client) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auctions", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(ctx, "list auctions", resp)
	}

	var auctions []models.Auction
	if err = json.NewDecoder(resp.Body).Decode(&auctions); err != nil {
		return nil, fmt.Errorf("failed to decode auctions response: %w", err)
	}

	return auctions, nil
}

// PaymentForward is the payload forwarded to the backend when a gateway
// payment is approved.
type PaymentForward struct {
	PaymentID       string          `json:"paymentId"`
	ExternalID      string          `json:"externalId"`
	GatewayResponse json.RawMessage `json:"gatewayResponse"`
}

// ForwardPaymentWebhook posts an approved payment to the backend's
// webhook endpoint.
func (c *Client) ForwardPaymentWebhook(ctx context.Context, payload PaymentForward) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/payments/webhook", bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to forward payment webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(ctx, "forward payment webhook", resp)
	}

	return nil
}

// statusError builds an error from a non-success response, preferring
// the backend's normalized {message} body when present.
func (c *Client) statusError(ctx context.Context, op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, apiErr.Message)
	}

	c.log.DebugContext(ctx, "Backend returned non-JSON error body", "op", op, "body", string(body))

	return fmt.Errorf("%s failed with status %d", op, resp.StatusCode)
}
