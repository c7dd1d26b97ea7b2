package sms

import (
	"context"
	"log/slog"
)

// Log writes the delivery to the process logger instead of texting. The code
// attribute is masked by the log handler when "code" is a mask field.
type Log struct{}

func NewLog() *Log { return &Log{} }

func (*Log) SendOTP(ctx context.Context, phone, code string) error {
	if phone == "" {
		return ErrRecipientRequired
	}

	slog.InfoContext(ctx, "sms otp delivered to log", "phone", phone, "code", code)

	return nil
}
