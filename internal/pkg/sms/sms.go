package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderLog      = "log"
	ProviderSMSLocal = "smslocal"
)

var (
	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("sms: unknown provider")
	// ErrAPIKeyRequired is returned when an HTTP provider has no credentials.
	ErrAPIKeyRequired = errors.New("sms: api key is required")
	// ErrRecipientRequired is returned when the phone number is empty.
	ErrRecipientRequired = errors.New("sms: recipient is required")
)

// Provider sends a one-time code to a phone number.
type Provider interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Sender   string
	Timeout  time.Duration
}

// NewFromConfig builds the provider named by cfg.Provider. An empty name
// selects the log provider.
func NewFromConfig(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderLog:
		return NewLog(), nil
	case ProviderSMSLocal:
		return NewSMSLocal(SMSLocalConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Sender:  cfg.Sender,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
