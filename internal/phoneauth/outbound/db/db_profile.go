package db

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/sqlc"
)

func (s *DB) GetProfileByMobileNumber(ctx context.Context, phone string) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetProfileByMobileNumber")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetProfileByMobileNumber(ctx, text(phone))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Profile{
		ID:           uuidString(row.ID),
		Email:        row.Email.String,
		Name:         row.Name.String,
		MobileNumber: row.MobileNumber.String,
		OTPEnabled:   row.OtpEnabled,
	}, nil
}

func (s *DB) EnableProfileOTP(ctx context.Context, userID, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "EnableProfileOTP")
	defer func() { s.endSpan(span, err) }()

	id, err := parseUUID(userID)
	if err != nil {
		return err
	}

	return s.mapError(s.query.EnableProfileOTP(ctx, sqlc.EnableProfileOTPParams{
		ID:           id,
		MobileNumber: text(phone),
	}))
}

func (s *DB) DisableProfileOTP(ctx context.Context, userID string) (err error) {
	ctx, span := s.startSpan(ctx, "DisableProfileOTP")
	defer func() { s.endSpan(span, err) }()

	id, err := parseUUID(userID)
	if err != nil {
		return err
	}

	return s.mapError(s.query.DisableProfileOTP(ctx, id))
}
