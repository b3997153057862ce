package leiloom_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leiloom/map-service/internal/leiloom"
)

const backendBase = "http://backend.internal"

func TestClient_ListAuctions(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	logger := slog.Default()
	client := leiloom.NewClient(backendBase, logger)

	t.Run("decodes the nested auction tree", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodGet, backendBase+"/auctions",
			httpmock.NewStringResponder(http.StatusOK, `[
				{"id":1,"name":"Leilão 42","lots":[
					{"id":10,"name":"Lote A","items":[
						{"id":100,"title":"Apartamento","basePrice":250000,"category":"property","city":"Manaus","state":"AM"}
					]}
				]}
			]`))

		auctions, err := client.ListAuctions(t.Context())

		require.NoError(t, err)
		require.Len(t, auctions, 1)
		require.Len(t, auctions[0].Lots, 1)
		require.Len(t, auctions[0].Lots[0].Items, 1)
		assert.Equal(t, "Apartamento", auctions[0].Lots[0].Items[0].Title)
		assert.Nil(t, auctions[0].Lots[0].Items[0].Lat)
	})

	t.Run("surfaces the normalized message on error", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodGet, backendBase+"/auctions",
			httpmock.NewStringResponder(http.StatusInternalServerError, `{"message":"database unavailable"}`))

		_, err := client.ListAuctions(t.Context())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database unavailable")
	})

	t.Run("handles a non-JSON error body", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodGet, backendBase+"/auctions",
			httpmock.NewStringResponder(http.StatusBadGateway, "upstream exploded"))

		_, err := client.ListAuctions(t.Context())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})
}

func TestClient_ForwardPaymentWebhook(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	logger := slog.Default()
	client := leiloom.NewClient(backendBase, logger)

	payload := leiloom.PaymentForward{
		PaymentID:       "12345",
		ExternalID:      "order-77",
		GatewayResponse: json.RawMessage(`{"status":"approved"}`),
	}

	t.Run("posts the forward payload", func(t *testing.T) {
		var received leiloom.PaymentForward
		httpmock.RegisterResponder(http.MethodPost, backendBase+"/payments/webhook",
			func(req *http.Request) (*http.Response, error) {
				require.NoError(t, json.NewDecoder(req.Body).Decode(&received))
				return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
			})

		require.NoError(t, client.ForwardPaymentWebhook(t.Context(), payload))
		assert.Equal(t, "12345", received.PaymentID)
		assert.Equal(t, "order-77", received.ExternalID)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodPost, backendBase+"/payments/webhook",
			httpmock.NewStringResponder(http.StatusBadRequest, `{"message":"unknown payment"}`))

		err := client.ForwardPaymentWebhook(t.Context(), payload)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown payment")
	})
}
