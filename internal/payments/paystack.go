package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnverified means the provider does not vouch for the reference: unknown
// transaction, failed charge, or a non-success status.
var ErrUnverified = errors.New("payment reference not verified by provider")

// VerifiedPayment is the provider's word on a transaction. Amounts are in
// kobo, as Paystack reports them.
type VerifiedPayment struct {
	Reference string
	Amount    int64
	Currency  string
	Status    string
	PaidAt    time.Time
}

// Verifier checks a checkout reference against the payment provider. The
// confirm endpoint never trusts a browser-supplied reference without it.
type Verifier interface {
	Verify(ctx context.Context, reference string) (*VerifiedPayment, error)
}

// Config holds Paystack API configuration
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// DefaultConfig returns default Paystack client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://api.paystack.co",
		Timeout: 10 * time.Second,
	}
}

// PaystackClient verifies transactions against the Paystack verify API.
type PaystackClient struct {
	config *Config
	client *http.Client
}

// NewPaystackClient creates a verifier backed by the Paystack API.
func NewPaystackClient(config *Config) *PaystackClient {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.paystack.co"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &PaystackClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// verifyResponse mirrors the Paystack transaction verify payload.
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string    `json:"status"`
		Reference string    `json:"reference"`
		Amount    int64     `json:"amount"`
		Currency  string    `json:"currency"`
		PaidAt    time.Time `json:"paid_at"`
	} `json:"data"`
}

// Verify calls GET /transaction/verify/:reference and returns the settled
// payment, or ErrUnverified when the provider rejects the reference.
func (p *PaystackClient) Verify(ctx context.Context, reference string) (*VerifiedPayment, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrUnverified)
	}

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", p.config.BaseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown reference %s", ErrUnverified, reference)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify request returned %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	if !body.Status || body.Data.Status != "success" {
		return nil, fmt.Errorf("%w: provider status %q", ErrUnverified, body.Data.Status)
	}

	return &VerifiedPayment{
		Reference: body.Data.Reference,
		Amount:    body.Data.Amount,
		Currency:  body.Data.Currency,
		Status:    body.Data.Status,
		PaidAt:    body.Data.PaidAt,
	}, nil
}
