package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/migration"
	"github.com/shandysiswandi/codelens/internal/pkg/testkit"
)

const (
	userID = "0190f3c4-6c1e-7a51-9d6c-2f0d5b1e8a11"
	phone  = "+15551234567"
)

func newTestDB(t *testing.T) (*DB, *pgxpool.Pool) {
	t.Helper()

	dsn := testkit.PostgresDSN(t)
	if err := migration.Run(dsn, migration.Up); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, email, name) VALUES ($1, 'ada@example.com', 'Ada')`, userID); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	return NewDB(pool, instrument.NewNoop()), pool
}

func TestOTPLifecycle(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	// Arrange
	if err := db.UpsertOTP(ctx, entity.OTP{ID: 1, PhoneNumber: phone, Code: "111111", ExpiresAt: now.Add(5 * time.Minute)}); err != nil {
		t.Fatalf("UpsertOTP() error = %v", err)
	}
	if err := db.UpsertOTP(ctx, entity.OTP{ID: 2, PhoneNumber: phone, Code: "482913", ExpiresAt: now.Add(5 * time.Minute)}); err != nil {
		t.Fatalf("UpsertOTP(resend) error = %v", err)
	}

	// Act + Assert
	if _, err := db.ConsumeOTP(ctx, phone, "111111", now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("ConsumeOTP(old code) error = %v, want ErrNotFound", err)
	}
	if _, err := db.ConsumeOTP(ctx, phone, "482913", now.Add(5*time.Minute)); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("ConsumeOTP(at expiry) error = %v, want ErrNotFound", err)
	}

	got, err := db.ConsumeOTP(ctx, phone, "482913", now.Add(5*time.Minute-time.Second))
	if err != nil {
		t.Fatalf("ConsumeOTP() error = %v", err)
	}
	if got.ID != 2 || got.Code != "482913" {
		t.Fatalf("ConsumeOTP() = %+v", got)
	}

	if _, err := db.ConsumeOTP(ctx, phone, "482913", now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("second ConsumeOTP() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpiredOTP(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_ = db.UpsertOTP(ctx, entity.OTP{ID: 1, PhoneNumber: "+111", Code: "111111", ExpiresAt: now.Add(-time.Minute)})
	_ = db.UpsertOTP(ctx, entity.OTP{ID: 2, PhoneNumber: "+222", Code: "222222", ExpiresAt: now.Add(time.Minute)})

	n, err := db.DeleteExpiredOTP(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredOTP() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
}

func TestProfileOTPToggle(t *testing.T) {
	db, pool := newTestDB(t)
	ctx := context.Background()

	if _, err := db.GetProfileByMobileNumber(ctx, phone); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("GetProfileByMobileNumber() error = %v, want ErrNotFound", err)
	}

	if err := db.EnableProfileOTP(ctx, userID, phone); err != nil {
		t.Fatalf("EnableProfileOTP() error = %v", err)
	}
	p, err := db.GetProfileByMobileNumber(ctx, phone)
	if err != nil {
		t.Fatalf("GetProfileByMobileNumber() error = %v", err)
	}
	if p.ID != userID || p.Email != "ada@example.com" || !p.OTPEnabled {
		t.Fatalf("profile = %+v", p)
	}

	if err := db.DisableProfileOTP(ctx, userID); err != nil {
		t.Fatalf("DisableProfileOTP() error = %v", err)
	}
	p, _ = db.GetProfileByMobileNumber(ctx, phone)
	if p.OTPEnabled {
		t.Fatalf("OTPEnabled still true")
	}

	if err := db.EnableProfileOTP(ctx, "not-a-uuid", phone); err == nil {
		t.Fatalf("EnableProfileOTP(bad uuid) error = nil")
	}

	other := "0190f3c4-6c1e-7a51-9d6c-2f0d5b1e8a22"
	if _, err := pool.Exec(ctx, `INSERT INTO profiles (id) VALUES ($1)`, other); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.EnableProfileOTP(ctx, other, phone); !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("EnableProfileOTP(taken phone) error = %v, want ErrConflict", err)
	}
}
