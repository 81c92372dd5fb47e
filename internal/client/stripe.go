package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/config"
	"printshop-backend/internal/model"
)

// How far a webhook timestamp may drift from now before we reject the
// delivery as a replay.
const signatureTolerance = 5 * time.Minute

type CheckoutSessionParams struct {
	Name            string
	Description     string
	Currency        string
	UnitAmountCents int64
	Quantity        int32
	SuccessURL      string
	CancelURL       string
	Metadata        map[string]string
}

type CheckoutSessionResult struct {
	SessionID   string
	RedirectURL string
}

type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSessionResult, error)
	VerifyWebhookSignature(signatureHeader string, body []byte) error
	ParseEvent(body []byte) (*model.StripeEvent, error)
}

type stripeClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
}

func NewStripeClient(stripeCfg *config.Stripe) PaymentClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    stripeCfg.BaseApiURL,
		secretKey:     stripeCfg.SecretKey,
		webhookSecret: stripeCfg.WebhookSecret,
	}
}

type stripeSessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSessionResult, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.UnitAmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Name)
	if params.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.Description)
	}
	form.Set("line_items[0][quantity]", strconv.FormatInt(int64(params.Quantity), 10))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: stripe error %d: %s", apperr.ErrProvider, resp.StatusCode, string(b))
	}

	var result stripeSessionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}

	return &CheckoutSessionResult{
		SessionID:   result.ID,
		RedirectURL: result.URL,
	}, nil
}

// VerifyWebhookSignature authenticates a delivery against the signing
// secret. The signature header has the form "t=<unix>,v1=<hex>" where v1 is
// HMAC-SHA256 over "<t>.<raw body>". Verification runs over the exact raw
// bytes received, never a re-serialized parse.
func (c *stripeClientImpl) VerifyWebhookSignature(signatureHeader string, body []byte) error {
	if signatureHeader == "" {
		return fmt.Errorf("%w: missing signature header", apperr.ErrSignatureInvalid)
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(signatureHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return fmt.Errorf("%w: malformed signature header", apperr.ErrSignatureInvalid)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp: %v", apperr.ErrSignatureInvalid, err)
	}
	if drift := time.Since(time.Unix(ts, 0)); drift > signatureTolerance || drift < -signatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", apperr.ErrSignatureInvalid)
	}

	expected := computeSignature(c.webhookSecret, timestamp, body)
	for _, candidate := range candidates {
		sig, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			return nil
		}
	}

	return fmt.Errorf("%w: no matching v1 signature", apperr.ErrSignatureInvalid)
}

func (c *stripeClientImpl) ParseEvent(body []byte) (*model.StripeEvent, error) {
	var event model.StripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return &event, nil
}

func computeSignature(secret, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// BuildSignatureHeader produces a valid signature header for a payload.
// Used by tests to act as the provider.
func BuildSignatureHeader(secret string, t time.Time, body []byte) string {
	timestamp := strconv.FormatInt(t.Unix(), 10)
	sig := computeSignature(secret, timestamp, body)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(sig))
}
