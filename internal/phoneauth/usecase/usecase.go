package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/clock"
	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/otp"
	"github.com/shandysiswandi/codelens/internal/pkg/uid"
	"github.com/shandysiswandi/codelens/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const defaultOTPTTL = 5 * time.Minute

// repoOTP stores pending codes. ConsumeOTP returns goerror.ErrNotFound when
// no live record matches.
type repoOTP interface {
	UpsertOTP(ctx context.Context, in entity.OTP) error
	ConsumeOTP(ctx context.Context, phone, code string, now time.Time) (*entity.OTP, error)
	DeleteExpiredOTP(ctx context.Context, now time.Time) (int64, error)
}

type repoProfile interface {
	GetProfileByMobileNumber(ctx context.Context, phone string) (*entity.Profile, error)
	EnableProfileOTP(ctx context.Context, userID, phone string) error
	DisableProfileOTP(ctx context.Context, userID string) error
}

type repoIdentity interface {
	GenerateRecoveryToken(ctx context.Context, email string) (string, error)
	UpdateCredential(ctx context.Context, token, password string) error
}

type repoSMS interface {
	SendOTP(ctx context.Context, phone, code string) error
}

type Usecase struct {
	repoOTP      repoOTP
	repoProfile  repoProfile
	repoIdentity repoIdentity
	repoSMS      repoSMS
	code         otp.Generator
	uid          uid.NumberID
	clock        clock.Clocker
	validator    validator.Validator
	ins          instrument.Instrumentation
	otpTTL       time.Duration

	otpSent       metric.Int64Counter
	otpVerified   metric.Int64Counter
	passwordReset metric.Int64Counter
}

type Dependency struct {
	RepoOTP      repoOTP
	RepoProfile  repoProfile
	RepoIdentity repoIdentity
	RepoSMS      repoSMS
	Code         otp.Generator
	UID          uid.NumberID
	Clock        clock.Clocker
	Config       config.Config
	Validator    validator.Validator
	Instrument   instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ttl := dep.Config.GetSecond("modules.phoneauth.otp_ttl_seconds")
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}

	meter := dep.Instrument.Meter("phoneauth.usecase")

	return &Usecase{
		repoOTP:      dep.RepoOTP,
		repoProfile:  dep.RepoProfile,
		repoIdentity: dep.RepoIdentity,
		repoSMS:      dep.RepoSMS,
		code:         dep.Code,
		uid:          dep.UID,
		clock:        dep.Clock,
		validator:    dep.Validator,
		ins:          dep.Instrument,
		otpTTL:       ttl,

		otpSent:       counter(meter, "phoneauth.otp.sent", "One-time codes issued"),
		otpVerified:   counter(meter, "phoneauth.otp.verified", "Code verification attempts by result"),
		passwordReset: counter(meter, "phoneauth.password.reset", "Password resets by result"),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("phoneauth.usecase").Start(ctx, name)
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Warn("failed to create counter", "name", name, "error", err)
		return metricnoop.Int64Counter{}
	}
	return c
}
