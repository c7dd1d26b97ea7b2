// Package identity is the phone flows' view of the identity provider. It mints
// single-use recovery tokens and rotates the stored password hash.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/codelens/internal/pkg/hash"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/jwt"
	"github.com/shandysiswandi/codelens/internal/pkg/sqlc"
	"github.com/shandysiswandi/codelens/internal/pkg/validator"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PurposeRecovery scopes tokens to the password reset flow.
const PurposeRecovery = "password_recovery"

const ledgerPrefix = "recovery_token:"

var (
	ErrEmailRequired   = errors.New("identity: profile has no email")
	ErrUnknownAccount  = errors.New("identity: no account for email")
	ErrTokenSpent      = errors.New("identity: recovery token already used")
	ErrPasswordRefused = errors.New("identity: password does not meet policy")
)

type credential struct {
	Password string `validate:"password"`
}

type Identity struct {
	query     *sqlc.Queries
	ledger    redis.UniversalClient
	jwt       jwt.JWT
	hash      hash.Hash
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	DBConn     *pgxpool.Pool
	CacheConn  redis.UniversalClient
	JWT        jwt.JWT
	Hash       hash.Hash
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Identity {
	return &Identity{
		query:     sqlc.New(dep.DBConn),
		ledger:    dep.CacheConn,
		jwt:       dep.JWT,
		hash:      dep.Hash,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (i *Identity) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return i.ins.Tracer("phoneauth.outbound.identity").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GenerateRecoveryToken signs a recovery token for the account owning email
// and records its id so it can be redeemed once.
func (i *Identity) GenerateRecoveryToken(ctx context.Context, email string) (_ string, err error) {
	ctx, span := i.startSpan(ctx, "GenerateRecoveryToken")
	defer func() { endSpan(span, err) }()

	if email == "" {
		return "", ErrEmailRequired
	}

	id, err := i.query.GetProfileIDByEmail(ctx, pgtype.Text{String: email, Valid: true})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUnknownAccount
	}
	if err != nil {
		return "", err
	}

	token, claims, err := i.jwt.Generate(uuid.UUID(id.Bytes).String(), PurposeRecovery)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if err := i.ledger.Set(ctx, ledgerPrefix+claims.ID, claims.Subject, ttl).Err(); err != nil {
		return "", fmt.Errorf("identity: record token: %w", err)
	}

	return token, nil
}

// UpdateCredential redeems token and stores a hash of password for its
// subject. A token is spent even if the final write fails.
func (i *Identity) UpdateCredential(ctx context.Context, token, password string) (err error) {
	ctx, span := i.startSpan(ctx, "UpdateCredential")
	defer func() { endSpan(span, err) }()

	claims, err := i.jwt.Verify(token, PurposeRecovery)
	if err != nil {
		return err
	}

	if err := i.validator.Validate(credential{Password: password}); err != nil {
		return fmt.Errorf("%w: %w", ErrPasswordRefused, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return fmt.Errorf("identity: token subject: %w", err)
	}

	hashed, err := i.hash.Hash(password)
	if errors.Is(err, hash.ErrTooLong) {
		return fmt.Errorf("%w: %w", ErrPasswordRefused, err)
	}
	if err != nil {
		return fmt.Errorf("identity: hash password: %w", err)
	}

	owner, err := i.ledger.GetDel(ctx, ledgerPrefix+claims.ID).Result()
	if errors.Is(err, redis.Nil) || (err == nil && owner != claims.Subject) {
		return ErrTokenSpent
	}
	if err != nil {
		return fmt.Errorf("identity: redeem token: %w", err)
	}

	return i.query.UpsertUserCredential(ctx, sqlc.UpsertUserCredentialParams{
		UserID:       pgtype.UUID{Bytes: userID, Valid: true},
		PasswordHash: string(hashed),
	})
}
