package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/config"
	"github.com/qalamart/storeapi/pkg/errors"
)

func testGatewayConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL:        baseURL,
		SecretKey:      "secret-key",
		CategoryCode:   "cat-1",
		ReturnURL:      "https://shop.example.com/payment/return",
		CallbackURL:    "https://shop.example.com/v1/payment/callback",
		BillExpiryDays: 3,
	}
}

func sampleBill() BillRequest {
	return BillRequest{
		OrderReference: "ORD-1-000001",
		Description:    "Order ORD-1-000001",
		Amount:         decimal.RequireFromString("115.50"),
		CustomerName:   "Amira Hassan",
		CustomerEmail:  "amira@example.com",
		CustomerPhone:  "+60123456789",
	}
}

func TestCreateBill(t *testing.T) {
	var received url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = r.PostForm
		assert.Equal(t, "/index.php/api/createBill", r.URL.Path)
		w.Write([]byte(`[{"BillCode":"abc123"}]`))
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zap.NewNop())
	require.True(t, client.Configured())

	resp, err := client.CreateBill(context.Background(), sampleBill())
	require.NoError(t, err)

	assert.Equal(t, "abc123", resp.BillCode)
	assert.Equal(t, server.URL+"/abc123", resp.PaymentURL)

	// amount travels in cents, reference in both name and external ref
	assert.Equal(t, "11550", received.Get("billAmount"))
	assert.Equal(t, "ORD-1-000001", received.Get("billExternalReferenceNo"))
	assert.Equal(t, "ORD-1-000001", received.Get("billName"))
	assert.Equal(t, "secret-key", received.Get("userSecretKey"))
	assert.Equal(t, "cat-1", received.Get("categoryCode"))
	assert.Equal(t, "3", received.Get("billExpiryDays"))
	assert.Equal(t, "https://shop.example.com/v1/payment/callback", received.Get("billCallbackUrl"))
}

func TestCreateBill_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("KEY-DID-NOT-EXIST"))
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zap.NewNop())

	_, err := client.CreateBill(context.Background(), sampleBill())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCreateBill_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[FALSE]"))
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zap.NewNop())

	_, err := client.CreateBill(context.Background(), sampleBill())
	require.Error(t, err)
}

func TestCreateBill_EmptyBillCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testGatewayConfig(server.URL), zap.NewNop())

	_, err := client.CreateBill(context.Background(), sampleBill())
	require.Error(t, err)
}

func TestConfigured(t *testing.T) {
	cfg := testGatewayConfig("https://pay.example.com")
	assert.True(t, NewClient(cfg, zap.NewNop()).Configured())

	cfg.SecretKey = ""
	assert.False(t, NewClient(cfg, zap.NewNop()).Configured())

	cfg = testGatewayConfig("")
	assert.False(t, NewClient(cfg, zap.NewNop()).Configured())
}

func TestParseCallback(t *testing.T) {
	form := url.Values{}
	form.Set("order_id", "ORD-1-000001")
	form.Set("status", "1")
	form.Set("billcode", "abc123")
	form.Set("amount", "11550")

	event, err := ParseCallback(form)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1-000001", event.OrderReference)
	assert.Equal(t, "1", event.RawStatus)
	assert.Equal(t, "abc123", event.BillCode)
	assert.Equal(t, "11550", event.Amount)
}

func TestParseCallback_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		omit string
	}{
		{"no order reference", "order_id"},
		{"no status", "status"},
		{"no bill code", "billcode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("order_id", "ORD-1-000001")
			form.Set("status", "1")
			form.Set("billcode", "abc123")
			form.Del(tc.omit)

			_, err := ParseCallback(form)

			var invalid *errors.ErrInvalidCallback
			require.ErrorAs(t, err, &invalid)
		})
	}
}
