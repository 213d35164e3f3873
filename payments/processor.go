// Package payments talks to the external card processor. The processor owns
// all cryptographic and ledger work; this side only creates payment intents
// and asks for their outcome.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusSucceeded = "succeeded"

	requestTimeout = 10 * time.Second
)

// ErrUnavailable wraps transport failures and non-2xx answers from the
// processor. Callers must leave order state untouched when they see it.
var ErrUnavailable = errors.New("payment processor unavailable")

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Processor interface {
	CreateIntent(ctx context.Context, amount int64, currency, orderID string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// MinorUnits converts a decimal amount to the processor's integer minor
// units, e.g. 20.50 becomes 2050.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func (c *Client) CreateIntent(ctx context.Context, amount int64, currency, orderID string) (*Intent, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"metadata": map[string]string{"order_id": orderID},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Intent, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	intent := &Intent{}
	if err := json.NewDecoder(resp.Body).Decode(intent); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", ErrUnavailable, err)
	}
	return intent, nil
}
