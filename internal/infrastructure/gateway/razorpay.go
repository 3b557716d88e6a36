// Package gateway implements the payment-provider client. The provider
// exposes a Razorpay-compatible API: orders are created over REST with basic
// auth, and payment confirmations are authenticated by an HMAC-SHA256
// signature over "<gatewayOrderId>|<paymentId>" keyed with the API secret.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/docsewa/marketplace-api/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.razorpay.com"
	ordersPath     = "/v1/orders"

	requestTimeout = 10 * time.Second
)

// Config carries the provider credentials. KeyID and KeySecret come from the
// provider dashboard; the server never exposes KeySecret.
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

// Configured reports whether both credentials are present.
func (c Config) Configured() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

// Client talks to the payment provider.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	log       zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: requestTimeout},
		log:       log,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateIntent registers an expected payment with the provider. Amounts are
// in the provider's minor unit (paise).
func (c *Client) CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*ports.GatewayIntent, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Msg("gateway rejected order creation")
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var parsed createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &ports.GatewayIntent{
		ID:       parsed.ID,
		Amount:   parsed.Amount,
		Currency: parsed.Currency,
		Receipt:  parsed.Receipt,
	}, nil
}

// VerifySignature checks the provider's confirmation signature in constant
// time. The signed payload is "<gatewayOrderId>|<paymentId>".
func (c *Client) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
