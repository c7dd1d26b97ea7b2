package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/sqlc"
)

func (s *DB) UpsertOTP(ctx context.Context, in entity.OTP) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertOTP")
	defer func() { s.endSpan(span, err) }()

	return s.mapError(s.query.UpsertPhoneOTP(ctx, sqlc.UpsertPhoneOTPParams{
		ID:          in.ID,
		PhoneNumber: in.PhoneNumber,
		OtpCode:     in.Code,
		ExpiresAt:   timestamptz(in.ExpiresAt),
	}))
}

// ConsumeOTP deletes the record only when phone, code and expiry all match,
// in one statement, so concurrent callers cannot both win.
func (s *DB) ConsumeOTP(ctx context.Context, phone, code string, now time.Time) (_ *entity.OTP, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.ConsumePhoneOTP(ctx, sqlc.ConsumePhoneOTPParams{
		PhoneNumber: phone,
		OtpCode:     code,
		ExpiresAt:   timestamptz(now),
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.OTP{
		ID:          row.ID,
		PhoneNumber: row.PhoneNumber,
		Code:        row.OtpCode,
		ExpiresAt:   row.ExpiresAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}

func (s *DB) DeleteExpiredOTP(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredOTP")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.DeleteExpiredPhoneOTP(ctx, timestamptz(now))
	if err != nil {
		return 0, s.mapError(err)
	}

	return n, nil
}
