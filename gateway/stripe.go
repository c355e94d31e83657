package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.stripe.com"

// Config carries everything the checkout client needs. SuccessURL and
// CancelURL point back at the frontend dashboard.
type Config struct {
	SecretKey  string
	BaseURL    string
	SuccessURL string
	CancelURL  string
}

// Client talks to the Stripe checkout API over plain HTTP. Requests are
// bounded by the http.Client timeout so a stalled gateway aborts the
// enclosing reservation instead of hanging it.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// CheckoutParams describes one appointment payment. AppointmentID and
// PaymentID travel through session metadata and come back on the webhook,
// which is the only link between a checkout and local records.
type CheckoutParams struct {
	Amount        float64
	Currency      string
	ProductName   string
	AppointmentID uint
	PaymentID     uint
}

// CheckoutSession is the subset of the session object the backend cares
// about: the hosted payment page URL handed back to the patient.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession opens a gateway-hosted payment flow for one
// appointment. Amount is converted to the smallest currency unit.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(math.Round(params.Amount*100)), 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[appointment_id]", strconv.FormatUint(uint64(params.AppointmentID), 10))
	form.Set("metadata[payment_id]", strconv.FormatUint(uint64(params.PaymentID), 10))
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read checkout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("checkout session rejected (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("checkout session rejected with status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	c.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Uint("appointment_id", params.AppointmentID),
		zap.Uint("payment_id", params.PaymentID))

	return &session, nil
}
