package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	smsLocalDefaultURL     = "https://www.smslocal.com/dev/bulkV2"
	smsLocalDefaultTimeout = 15 * time.Second
)

// SMSLocalConfig configures the SMS Local OTP route client.
type SMSLocalConfig struct {
	APIKey     string
	BaseURL    string
	Sender     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// SMSLocal sends codes through the SMS Local bulk API using route=otp.
type SMSLocal struct {
	apiKey  string
	baseURL string
	sender  string
	client  *http.Client
}

type smsLocalRequest struct {
	Route     string `json:"route"`
	Numbers   string `json:"numbers"`
	Variables string `json:"variables"`
	Sender    string `json:"sender_id,omitempty"`
}

func NewSMSLocal(cfg SMSLocalConfig) (*SMSLocal, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = smsLocalDefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = smsLocalDefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &SMSLocal{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		sender:  cfg.Sender,
		client:  cfg.HTTPClient,
	}, nil
}

// SendOTP posts the code to the provider. The API wants digits only, so a
// leading "+" is stripped from phone.
func (s *SMSLocal) SendOTP(ctx context.Context, phone, code string) error {
	phone = strings.TrimPrefix(phone, "+")
	if phone == "" {
		return ErrRecipientRequired
	}

	raw, err := json.Marshal(smsLocalRequest{
		Route:     "otp",
		Numbers:   phone,
		Variables: code,
		Sender:    s.sender,
	})
	if err != nil {
		return fmt.Errorf("sms: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
