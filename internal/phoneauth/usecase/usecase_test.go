package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
)

const phone = "+15551234567"

func TestSendThenVerifyScenario(t *testing.T) {
	// Arrange
	h := newHarness(t, "482913")
	h.store.addProfile(entity.Profile{ID: "u-1", Email: "ada@example.com", MobileNumber: phone})
	ctx := context.Background()

	// Act
	err := h.uc.SendOTP(ctx, SendOTPInput{Phone: phone})

	// Assert
	if err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	stored, ok := h.store.otp(phone)
	if !ok || stored.Code != "482913" {
		t.Fatalf("stored otp = %+v, ok=%v", stored, ok)
	}
	if !stored.ExpiresAt.Equal(testNow.Add(5 * time.Minute)) {
		t.Fatalf("ExpiresAt = %v, want now+5m", stored.ExpiresAt)
	}
	if len(h.sms.calls) != 1 || h.sms.calls[0] != (smsCall{phone: phone, code: "482913"}) {
		t.Fatalf("sms calls = %+v", h.sms.calls)
	}

	out, err := h.uc.VerifyOTP(ctx, VerifyOTPInput{Phone: phone, OTP: "482913"})
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if out.Token != "recovery-token-for-ada@example.com" {
		t.Fatalf("Token = %q", out.Token)
	}
	if _, ok := h.store.otp(phone); ok {
		t.Fatalf("otp record still present after verify")
	}

	_, err = h.uc.VerifyOTP(ctx, VerifyOTPInput{Phone: phone, OTP: "482913"})
	assertGoError(t, err, "Invalid or expired OTP", http.StatusBadRequest)
}

func TestSendOTP(t *testing.T) {
	tests := []struct {
		name       string
		phone      string
		setup      func(h *harness)
		wantMsg    string
		wantStatus int
	}{
		{name: "empty phone", phone: "", wantMsg: "Invalid phone number", wantStatus: http.StatusBadRequest},
		{name: "leading zero", phone: "012345", wantMsg: "Invalid phone number", wantStatus: http.StatusBadRequest},
		{name: "letters", phone: "+1555abc", wantMsg: "Invalid phone number", wantStatus: http.StatusBadRequest},
		{name: "too long", phone: "+1234567890123456", wantMsg: "Invalid phone number", wantStatus: http.StatusBadRequest},
		{
			name: "no profile", phone: phone,
			wantMsg: "No account found with this phone number", wantStatus: http.StatusNotFound,
		},
		{
			name: "profile lookup fails", phone: phone,
			setup:   func(h *harness) { h.store.profileErr = errStorage },
			wantMsg: "Internal server error", wantStatus: http.StatusInternalServerError,
		},
		{
			name: "upsert fails", phone: phone,
			setup: func(h *harness) {
				h.store.addProfile(entity.Profile{ID: "u-1", MobileNumber: phone})
				h.store.upsertErr = errStorage
			},
			wantMsg: "Failed to create OTP", wantStatus: http.StatusInternalServerError,
		},
		{
			name: "code generator fails", phone: phone,
			setup: func(h *harness) {
				h.store.addProfile(entity.Profile{ID: "u-1", MobileNumber: phone})
				h.codes.err = errors.New("entropy unavailable")
			},
			wantMsg: "Internal server error", wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h)
			}

			// Act
			err := h.uc.SendOTP(context.Background(), SendOTPInput{Phone: tt.phone})

			// Assert
			assertGoError(t, err, tt.wantMsg, tt.wantStatus)
			if _, ok := h.store.otp(tt.phone); ok {
				t.Fatalf("otp written on failure")
			}
			if len(h.sms.calls) != 0 {
				t.Fatalf("sms sent on failure: %+v", h.sms.calls)
			}
		})
	}
}

func TestSendOTPSucceedsWhenSMSFails(t *testing.T) {
	h := newHarness(t)
	h.store.addProfile(entity.Profile{ID: "u-1", MobileNumber: phone})
	h.sms.err = errors.New("provider unavailable")

	if err := h.uc.SendOTP(context.Background(), SendOTPInput{Phone: phone}); err != nil {
		t.Fatalf("SendOTP() error = %v, want nil", err)
	}
	if _, ok := h.store.otp(phone); !ok {
		t.Fatalf("otp not stored")
	}
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	h := newHarness(t, "111111", "222222")
	h.store.addProfile(entity.Profile{ID: "u-1", Email: "ada@example.com", MobileNumber: phone})
	ctx := context.Background()

	for range 2 {
		if err := h.uc.SendOTP(ctx, SendOTPInput{Phone: phone}); err != nil {
			t.Fatalf("SendOTP() error = %v", err)
		}
	}

	_, err := h.uc.VerifyOTP(ctx, VerifyOTPInput{Phone: phone, OTP: "111111"})
	assertGoError(t, err, "Invalid or expired OTP", http.StatusBadRequest)

	if _, err := h.uc.VerifyOTP(ctx, VerifyOTPInput{Phone: phone, OTP: "222222"}); err != nil {
		t.Fatalf("VerifyOTP(new code) error = %v", err)
	}
}

func TestVerifyOTPExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantOK  bool
	}{
		{name: "one second before expiry", advance: 5*time.Minute - time.Second, wantOK: true},
		{name: "at expiry", advance: 5 * time.Minute, wantOK: false},
		{name: "one second after expiry", advance: 5*time.Minute + time.Second, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := newHarness(t, "482913")
			h.store.addProfile(entity.Profile{ID: "u-1", Email: "ada@example.com", MobileNumber: phone})
			if err := h.uc.SendOTP(context.Background(), SendOTPInput{Phone: phone}); err != nil {
				t.Fatalf("SendOTP() error = %v", err)
			}
			h.clock.Advance(tt.advance)

			// Act
			_, err := h.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "482913"})

			// Assert
			if tt.wantOK && err != nil {
				t.Fatalf("VerifyOTP() error = %v", err)
			}
			if !tt.wantOK {
				assertGoError(t, err, "Invalid or expired OTP", http.StatusBadRequest)
			}
		})
	}
}

func TestVerifyOTPFailures(t *testing.T) {
	tests := []struct {
		name       string
		in         VerifyOTPInput
		setup      func(h *harness)
		wantMsg    string
		wantStatus int
	}{
		{
			name: "missing otp", in: VerifyOTPInput{Phone: phone},
			wantMsg: "Phone number and OTP required", wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing phone", in: VerifyOTPInput{OTP: "482913"},
			wantMsg: "Phone number and OTP required", wantStatus: http.StatusBadRequest,
		},
		{
			name: "never issued", in: VerifyOTPInput{Phone: phone, OTP: "482913"},
			wantMsg: "Invalid or expired OTP", wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure looks like a miss", in: VerifyOTPInput{Phone: phone, OTP: "482913"},
			setup:   func(h *harness) { h.store.consumeErr = errStorage },
			wantMsg: "Invalid or expired OTP", wantStatus: http.StatusBadRequest,
		},
		{
			name: "profile gone", in: VerifyOTPInput{Phone: phone, OTP: "482913"},
			setup: func(h *harness) {
				_ = h.store.UpsertOTP(context.Background(), entity.OTP{PhoneNumber: phone, Code: "482913", ExpiresAt: testNow.Add(time.Minute)})
			},
			wantMsg: "User not found", wantStatus: http.StatusNotFound,
		},
		{
			name: "token issue fails", in: VerifyOTPInput{Phone: phone, OTP: "482913"},
			setup: func(h *harness) {
				h.store.addProfile(entity.Profile{ID: "u-1", MobileNumber: phone})
				_ = h.store.UpsertOTP(context.Background(), entity.OTP{PhoneNumber: phone, Code: "482913", ExpiresAt: testNow.Add(time.Minute)})
				h.identity.tokenErr = errors.New("signing failed")
			},
			wantMsg: "Failed to generate reset token", wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h)
			}

			_, err := h.uc.VerifyOTP(context.Background(), tt.in)

			assertGoError(t, err, tt.wantMsg, tt.wantStatus)
		})
	}
}

func TestVerifyOTPMalformedCodeKeepsLiveCode(t *testing.T) {
	for _, code := range []string{"48a913", "123", "1234567890"} {
		t.Run(code, func(t *testing.T) {
			// Arrange
			h := newHarness(t)
			h.store.addProfile(entity.Profile{ID: "u-1", Email: "ada@example.com", MobileNumber: phone})
			_ = h.store.UpsertOTP(context.Background(), entity.OTP{PhoneNumber: phone, Code: "482913", ExpiresAt: testNow.Add(time.Minute)})

			// Act
			_, err := h.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: code})

			// Assert
			assertGoError(t, err, "Invalid or expired OTP", http.StatusBadRequest)
			if _, ok := h.store.otp(phone); !ok {
				t.Fatalf("live otp consumed by malformed code %q", code)
			}
		})
	}
}

func TestVerifyOTPConsumesOnceUnderRace(t *testing.T) {
	h := newHarness(t, "482913")
	h.store.addProfile(entity.Profile{ID: "u-1", Email: "ada@example.com", MobileNumber: phone})
	if err := h.uc.SendOTP(context.Background(), SendOTPInput{Phone: phone}); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			if _, err := h.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "482913"}); err == nil {
				wins.Add(1)
			}
		})
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("successful verifies = %d, want 1", wins.Load())
	}
}

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name       string
		in         ResetPasswordInput
		updateErr  error
		wantMsg    string
		wantStatus int
	}{
		{
			name: "missing password", in: ResetPasswordInput{Token: "t"},
			wantMsg: "Token and password required", wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing token", in: ResetPasswordInput{Password: "hunter22"},
			wantMsg: "Token and password required", wantStatus: http.StatusBadRequest,
		},
		{
			name: "provider rejects", in: ResetPasswordInput{Token: "t", Password: "hunter22"}, updateErr: errors.New("token already used"),
			wantMsg: "Failed to reset password", wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.identity.updateErr = tt.updateErr

			err := h.uc.ResetPassword(context.Background(), tt.in)

			assertGoError(t, err, tt.wantMsg, tt.wantStatus)
		})
	}

	t.Run("ok", func(t *testing.T) {
		h := newHarness(t)

		if err := h.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "t", Password: "hunter22"}); err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}
		if h.identity.updated["t"] != "hunter22" {
			t.Fatalf("credential not updated: %+v", h.identity.updated)
		}
	})
}

func TestEnableOTP(t *testing.T) {
	tests := []struct {
		name        string
		in          EnableOTPInput
		enableErr   error
		wantMsg     string
		wantStatus  int
		wantEnabled bool
	}{
		{
			name: "missing phone", in: EnableOTPInput{UserID: "u-1"},
			wantMsg: "User ID and phone number required", wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing user", in: EnableOTPInput{Phone: phone},
			wantMsg: "User ID and phone number required", wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad format", in: EnableOTPInput{UserID: "u-1", Phone: "012345"},
			wantMsg: "Invalid phone number format", wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage fails", in: EnableOTPInput{UserID: "u-1", Phone: phone}, enableErr: errStorage,
			wantMsg: "Failed to enable OTP", wantStatus: http.StatusInternalServerError,
		},
		{name: "ok", in: EnableOTPInput{UserID: "u-1", Phone: phone}, wantEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := newHarness(t)
			h.store.addProfile(entity.Profile{ID: "u-1"})
			h.store.enableErr = tt.enableErr

			// Act
			err := h.uc.EnableOTP(context.Background(), tt.in)

			// Assert
			if tt.wantMsg != "" {
				assertGoError(t, err, tt.wantMsg, tt.wantStatus)
			} else if err != nil {
				t.Fatalf("EnableOTP() error = %v", err)
			}
			p := h.store.profiles["u-1"]
			if p.OTPEnabled != tt.wantEnabled {
				t.Fatalf("OTPEnabled = %v, want %v", p.OTPEnabled, tt.wantEnabled)
			}
			if !tt.wantEnabled && p.MobileNumber != "" {
				t.Fatalf("mobile number written on failure: %q", p.MobileNumber)
			}
		})
	}
}

func TestDisableOTP(t *testing.T) {
	h := newHarness(t)
	h.store.addProfile(entity.Profile{ID: "u-1", MobileNumber: phone, OTPEnabled: true})

	err := h.uc.DisableOTP(context.Background(), DisableOTPInput{})
	assertGoError(t, err, "User ID required", http.StatusBadRequest)

	if err := h.uc.DisableOTP(context.Background(), DisableOTPInput{UserID: "u-1"}); err != nil {
		t.Fatalf("DisableOTP() error = %v", err)
	}
	if h.store.profiles["u-1"].OTPEnabled {
		t.Fatalf("OTPEnabled still true")
	}
}

func TestPurgeExpiredOTP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_ = h.store.UpsertOTP(ctx, entity.OTP{PhoneNumber: "+111", Code: "111111", ExpiresAt: testNow.Add(-time.Second)})
	_ = h.store.UpsertOTP(ctx, entity.OTP{PhoneNumber: "+222", Code: "222222", ExpiresAt: testNow.Add(time.Minute)})

	n, err := h.uc.PurgeExpiredOTP(ctx)

	if err != nil {
		t.Fatalf("PurgeExpiredOTP() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("purged = %d, want 1", n)
	}
	if _, ok := h.store.otp("+222"); !ok {
		t.Fatalf("live otp purged")
	}
}
