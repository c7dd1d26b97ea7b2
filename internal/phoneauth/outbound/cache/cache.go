package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "phone_otp:"

// consumeScript deletes the hash only when the code matches and the stored
// expiry is still ahead of ARGV[2] (unix millis).
var consumeScript = redis.NewScript(`
local v = redis.call('HMGET', KEYS[1], 'id', 'code', 'expires_at', 'created_at')
if not v[2] or v[2] ~= ARGV[1] then
  return false
end
if tonumber(v[3]) <= tonumber(ARGV[2]) then
  return false
end
redis.call('DEL', KEYS[1])
return v
`)

// OTPStore keeps pending codes in Redis hashes that expire with the code.
type OTPStore struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewOTPStore(client redis.UniversalClient, ins instrument.Instrumentation) *OTPStore {
	return &OTPStore{client: client, ins: ins}
}

func (s *OTPStore) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("phoneauth.outbound.cache").Start(ctx, name)
}

func (s *OTPStore) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *OTPStore) UpsertOTP(ctx context.Context, in entity.OTP) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertOTP")
	defer func() { s.endSpan(span, err) }()

	key := keyPrefix + in.PhoneNumber
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key,
			"id", in.ID,
			"code", in.Code,
			"expires_at", in.ExpiresAt.UnixMilli(),
			"created_at", in.CreatedAt.UnixMilli(),
		)
		p.PExpireAt(ctx, key, in.ExpiresAt)
		return nil
	})

	return err
}

func (s *OTPStore) ConsumeOTP(ctx context.Context, phone, code string, now time.Time) (_ *entity.OTP, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	vals, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + phone}, code, now.UnixMilli()).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(vals) != 4 {
		return nil, fmt.Errorf("consume otp: unexpected reply of %d fields", len(vals))
	}

	id, err := strconv.ParseInt(vals[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("consume otp: parse id: %w", err)
	}
	exp, err := strconv.ParseInt(vals[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("consume otp: parse expires_at: %w", err)
	}
	created, _ := strconv.ParseInt(vals[3], 10, 64)

	return &entity.OTP{
		ID:          id,
		PhoneNumber: phone,
		Code:        vals[1],
		ExpiresAt:   time.UnixMilli(exp).UTC(),
		CreatedAt:   time.UnixMilli(created).UTC(),
	}, nil
}

// DeleteExpiredOTP is a no-op; Redis evicts the keys on their own.
func (*OTPStore) DeleteExpiredOTP(context.Context, time.Time) (int64, error) {
	return 0, nil
}
