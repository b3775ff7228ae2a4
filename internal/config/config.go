package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the service reads from the environment.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS" envDefault:":8080"`
	RunLocal      bool   `env:"RUN_LOCAL" envDefault:"false"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL,required"`
	RedirectURL   string `env:"REDIRECT_URL,required"`

	GatewayBaseURL     string `env:"GATEWAY_BASE_URL,required"`
	GatewayAPIKey      string `env:"GATEWAY_API_KEY,required"`
	GatewayMerchantID  string `env:"MERCHANT_ID,required"`
	GatewayResponseKey string `env:"GATEWAY_RESPONSE_KEY,required"`

	PaymentSheetURL string `env:"PAYMENT_SHEET_URL"`
	PaymentSheetKey string `env:"PAYMENT_SHEET_KEY"`

	OrdersTable          string `env:"ORDERS_TABLE,required"`
	PaymentEventQueueURL string `env:"PAYMENT_EVENTS_QUEUE_URL"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// ReturnURL is where the gateway sends the shopper (and the signed
// callback parameters) after the payment attempt.
func (c *Config) ReturnURL() string {
	return c.PublicBaseURL + "/handlePaymentResponse"
}
