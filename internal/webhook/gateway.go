// Package webhook relays payment gateway notifications to the Leiloom
// backend. The relay holds no payment state of its own: it looks the
// payment up at the gateway and forwards approved ones.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Payment is the subset of the gateway's payment resource the relay
// cares about, plus the raw response body forwarded to the backend.
type Payment struct {
	ID                string
	Status            string
	ExternalReference string
	Raw               json.RawMessage
}

// StatusApproved is the only gateway status that triggers a forward.
const StatusApproved = "approved"

// GatewayClient fetches full payment details from the payment gateway.
type GatewayClient interface {
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// HTTPGatewayClient is the real gateway client, authenticated with the
// externally configured access token.
type HTTPGatewayClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	log         *slog.Logger
}

// NewGatewayClient creates a gateway client for the given API base URL
// and access token.
func NewGatewayClient(baseURL, accessToken string, log *slog.Logger) *HTTPGatewayClient {
	const timeout = 10
	return &HTTPGatewayClient{
		httpClient:  &http.Client{Timeout: timeout * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		log:         log,
	}
}

// gatewayPayment mirrors the gateway's payment JSON. The ID comes back
// numeric, so it is decoded through json.Number.
type gatewayPayment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

// GetPayment fetches the payment resource for paymentID.
func (g *HTTPGatewayClient) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", g.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.log.ErrorContext(ctx, "Gateway payment lookup failed",
			"payment", paymentID, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("gateway returned status %d for payment %s", resp.StatusCode, paymentID)
	}

	var parsed gatewayPayment
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}

	return &Payment{
		ID:                parsed.ID.String(),
		Status:            parsed.Status,
		ExternalReference: parsed.ExternalReference,
		Raw:               body,
	}, nil
}
