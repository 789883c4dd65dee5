package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shashiranjanraj/campuseats/config"
	"github.com/shashiranjanraj/campuseats/pkg/httpclient"
)

// Gateway talks to the external payment provider. Construct one with
// NewGatewayFromConfig in production; tests inject their own endpoint and
// secrets with NewGateway.
type Gateway struct {
	url           string
	secret        string
	webhookSecret string
	timeout       time.Duration
}

func NewGateway(url, secret, webhookSecret string, timeout time.Duration) *Gateway {
	return &Gateway{url: url, secret: secret, webhookSecret: webhookSecret, timeout: timeout}
}

func NewGatewayFromConfig() *Gateway {
	return NewGateway(
		config.PaymentGatewayURL(),
		config.PaymentSecretKey(),
		config.PaymentWebhookSecret(),
		config.PaymentTimeout(),
	)
}

// GatewayIntent is the provider's response to intent creation.
type GatewayIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreateIntent asks the provider to open a payment intent. Amount is in
// rupees; the wire format uses the smallest unit.
func (g *Gateway) CreateIntent(amount float64, metadata map[string]string) (GatewayIntent, error) {
	resp, err := httpclient.Post(g.url+"/v1/payment_intents").
		Bearer(g.secret).
		Body(map[string]interface{}{
			"amount":   int64(amount * 100),
			"currency": "inr",
			"metadata": metadata,
		}).
		Timeout(g.timeout).
		Retry(2, 500*time.Millisecond).
		Send()
	if err != nil {
		return GatewayIntent{}, ErrUpstreamPayment
	}
	if !resp.OK() {
		return GatewayIntent{}, ErrUpstreamPayment
	}

	var intent GatewayIntent
	if err := resp.JSON(&intent); err != nil {
		return GatewayIntent{}, ErrUpstreamPayment
	}
	return intent, nil
}

// VerifySignature checks the HMAC-SHA256 hex signature the provider sends
// in X-Gateway-Signature against the raw webhook body.
func (g *Gateway) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
