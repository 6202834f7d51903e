package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/config"
)

// Client talks to the bill-based payment gateway. A bill is the gateway's
// unit of payment request: creating one returns a bill code and a hosted
// payment page URL the buyer is redirected to.
type Client struct {
	baseURL        string
	secretKey      string
	categoryCode   string
	returnURL      string
	callbackURL    string
	billExpiryDays int
	httpClient     *http.Client
	logger         *zap.Logger
}

// NewClient creates a new payment gateway client
func NewClient(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL:        baseURL,
		secretKey:      cfg.SecretKey,
		categoryCode:   cfg.CategoryCode,
		returnURL:      cfg.ReturnURL,
		callbackURL:    cfg.CallbackURL,
		billExpiryDays: cfg.BillExpiryDays,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the credentials needed to create bills are
// present. Checkout refuses to submit when they are not.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.secretKey != "" && c.categoryCode != ""
}

// BillRequest carries the order hand-off to the gateway
type BillRequest struct {
	OrderReference string
	Description    string
	Amount         decimal.Decimal
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
}

// BillResponse is the gateway's answer to a create-bill call
type BillResponse struct {
	BillCode   string
	PaymentURL string
}

type createBillResult struct {
	BillCode string `json:"BillCode"`
}

// CreateBill registers a payment request with the gateway and returns the
// hosted payment page URL. Amounts are sent in cents.
func (c *Client) CreateBill(ctx context.Context, bill BillRequest) (*BillResponse, error) {
	endpoint := fmt.Sprintf("%s/index.php/api/createBill", c.baseURL)

	amountCents := bill.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	form := url.Values{}
	form.Set("userSecretKey", c.secretKey)
	form.Set("categoryCode", c.categoryCode)
	form.Set("billName", bill.OrderReference)
	form.Set("billDescription", bill.Description)
	form.Set("billPriceSetting", "1")
	form.Set("billPayorInfo", "1")
	form.Set("billAmount", strconv.FormatInt(amountCents, 10))
	form.Set("billReturnUrl", c.returnURL)
	form.Set("billCallbackUrl", c.callbackURL)
	form.Set("billExternalReferenceNo", bill.OrderReference)
	form.Set("billTo", bill.CustomerName)
	form.Set("billEmail", bill.CustomerEmail)
	form.Set("billPhone", bill.CustomerPhone)
	form.Set("billExpiryDays", strconv.Itoa(c.billExpiryDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var results []createBillResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %s", string(body))
	}
	if len(results) == 0 || results[0].BillCode == "" {
		return nil, fmt.Errorf("gateway returned no bill code")
	}

	billCode := results[0].BillCode
	return &BillResponse{
		BillCode:   billCode,
		PaymentURL: fmt.Sprintf("%s/%s", c.baseURL, billCode),
	}, nil
}
