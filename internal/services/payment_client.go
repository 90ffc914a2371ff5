package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PaymentClient verifies transaction references against the external payment
// gateway.
type PaymentClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        *zap.Logger
}

func NewPaymentClient(baseURL, secretKey string, log *zap.Logger) *PaymentClient {
	return &PaymentClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type VerifyResult struct {
	Verified bool    `json:"verified"`
	Amount   *int64  `json:"amount,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// Verify asks the gateway whether the transaction completed. A network or
// gateway error is distinct from a clean "not verified" answer.
func (c *PaymentClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("payment gateway is not configured")
	}
	if reference == "" {
		return nil, fmt.Errorf("transaction reference is required")
	}

	body, _ := json.Marshal(map[string]string{"reference": reference})
	url := c.baseURL + "/transactions/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, string(b))
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
