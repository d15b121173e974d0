// Package payment talks to the payment provider's REST API and verifies
// its webhook signatures.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

type Config struct {
	BaseURL     string
	SecretKey   string
	CallbackURL string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type ChargeRequest struct {
	TxRef       string `json:"tx_ref"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	PhoneNumber string `json:"mobile"`
	CallbackURL string `json:"callback_url"`
}

type chargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// InitiateCharge asks the provider for a hosted checkout URL bound to the
// transaction reference.
func (c *Client) InitiateCharge(ctx context.Context, req ChargeRequest) (string, error) {
	if req.CallbackURL == "" {
		req.CallbackURL = c.cfg.CallbackURL
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/charges?type=telebirr", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send charge request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read charge response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("charge request rejected: status %d: %s", resp.StatusCode, raw)
	}

	var parsed chargeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse charge response: %w", err)
	}
	if parsed.Data.CheckoutURL == "" {
		return "", fmt.Errorf("charge response missing checkout url")
	}
	return parsed.Data.CheckoutURL, nil
}

// VerifyTransaction queries the provider for the authoritative status of a
// transaction. Webhook payloads are hints; this is the source of truth.
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/v1/transaction/verify/"+txRef, nil)
	if err != nil {
		return "", fmt.Errorf("build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send verify request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read verify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verify request rejected: status %d: %s", resp.StatusCode, raw)
	}

	var parsed verifyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse verify response: %w", err)
	}
	return parsed.Data.Status, nil
}
