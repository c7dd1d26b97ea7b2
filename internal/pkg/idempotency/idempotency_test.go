package idempotency_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/codelens/internal/pkg/idempotency"
	"github.com/shandysiswandi/codelens/internal/pkg/testkit"
)

func TestExecRunsOnce(t *testing.T) {
	// Arrange
	tracker := idempotency.New(testkit.Redis(t))
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	// Act
	first := tracker.Exec(ctx, "phone_otp_sms:1", fn)
	second := tracker.Exec(ctx, "phone_otp_sms:1", fn)

	// Assert
	if first != nil {
		t.Fatalf("first Exec() error = %v", first)
	}
	if !errors.Is(second, idempotency.ErrCompleted) {
		t.Fatalf("second Exec() error = %v, want ErrCompleted", second)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecReleasesOnFailure(t *testing.T) {
	// Arrange
	tracker := idempotency.New(testkit.Redis(t))
	ctx := context.Background()
	boom := errors.New("provider down")

	// Act
	err := tracker.Exec(ctx, "phone_otp_sms:2", func(context.Context) error { return boom })
	retry := tracker.Exec(ctx, "phone_otp_sms:2", func(context.Context) error { return nil })

	// Assert
	if !errors.Is(err, boom) {
		t.Fatalf("Exec() error = %v, want %v", err, boom)
	}
	if retry != nil {
		t.Fatalf("retry Exec() error = %v, want nil", retry)
	}
}
