package inbound

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/phoneauth/usecase"
	"github.com/shandysiswandi/codelens/internal/pkg/router"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) error
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error
	EnableOTP(ctx context.Context, in usecase.EnableOTPInput) error
	DisableOTP(ctx context.Context, in usecase.DisableOTPInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// single entry point, dispatched on "action"
	r.POST("/functions/v1/phone-auth", end.PhoneAuth)

	r.POST("/api/v1/phone-auth/otp/send", end.SendOTP)
	r.POST("/api/v1/phone-auth/otp/verify", end.VerifyOTP)
	r.POST("/api/v1/phone-auth/password/reset", end.ResetPassword)
	r.POST("/api/v1/phone-auth/otp/enable", end.EnableOTP)
	r.POST("/api/v1/phone-auth/otp/disable", end.DisableOTP)
}
