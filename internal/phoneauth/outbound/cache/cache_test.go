package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/phoneauth/outbound/cache"
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/testkit"
)

const phone = "+15551234567"

func TestOTPStoreConsume(t *testing.T) {
	// Arrange
	store := cache.NewOTPStore(testkit.Redis(t), instrument.NewNoop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	exp := now.Add(5 * time.Minute)

	if err := store.UpsertOTP(ctx, entity.OTP{ID: 7, PhoneNumber: phone, Code: "111111", ExpiresAt: exp, CreatedAt: now}); err != nil {
		t.Fatalf("UpsertOTP() error = %v", err)
	}
	if err := store.UpsertOTP(ctx, entity.OTP{ID: 8, PhoneNumber: phone, Code: "482913", ExpiresAt: exp, CreatedAt: now}); err != nil {
		t.Fatalf("UpsertOTP(resend) error = %v", err)
	}

	// Act + Assert
	if _, err := store.ConsumeOTP(ctx, phone, "111111", now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("ConsumeOTP(old code) error = %v, want ErrNotFound", err)
	}
	if _, err := store.ConsumeOTP(ctx, phone, "482913", exp); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("ConsumeOTP(at expiry) error = %v, want ErrNotFound", err)
	}

	got, err := store.ConsumeOTP(ctx, phone, "482913", exp.Add(-time.Second))
	if err != nil {
		t.Fatalf("ConsumeOTP() error = %v", err)
	}
	if got.ID != 8 || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("ConsumeOTP() = %+v", got)
	}

	if _, err := store.ConsumeOTP(ctx, phone, "482913", now); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("second ConsumeOTP() error = %v, want ErrNotFound", err)
	}
}

func TestOTPStoreConsumeRace(t *testing.T) {
	store := cache.NewOTPStore(testkit.Redis(t), instrument.NewNoop())
	ctx := context.Background()
	now := time.Now()

	if err := store.UpsertOTP(ctx, entity.OTP{ID: 1, PhoneNumber: phone, Code: "482913", ExpiresAt: now.Add(time.Minute), CreatedAt: now}); err != nil {
		t.Fatalf("UpsertOTP() error = %v", err)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if _, err := store.ConsumeOTP(ctx, phone, "482913", now); err == nil {
				wins.Add(1)
			}
		})
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("wins = %d, want 1", wins.Load())
	}
}
