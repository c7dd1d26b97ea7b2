package inbound

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/phoneauth/usecase"
	"github.com/shandysiswandi/codelens/internal/pkg/router"
)

// HTTPEndpoint exposes the phone OTP flows over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// PhoneAuth is the single entry point; the body's "action" picks the flow.
func (h *HTTPEndpoint) PhoneAuth(r *router.Request) (any, error) {
	body, err := r.RawBody()
	if err != nil {
		return nil, err
	}

	act, err := DecodeAction(body)
	if err != nil {
		return nil, err
	}

	return h.dispatch(r.Context(), act)
}

func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return h.dispatch(r.Context(), SendOTPAction{Phone: req.Phone})
}

func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return h.dispatch(r.Context(), VerifyOTPAction{Phone: req.Phone, OTP: req.OTP})
}

func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return h.dispatch(r.Context(), ResetPasswordAction{Token: req.Token, Password: req.Password})
}

func (h *HTTPEndpoint) EnableOTP(r *router.Request) (any, error) {
	var req EnableOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return h.dispatch(r.Context(), EnableOTPAction{UserID: req.UserID, Phone: req.Phone})
}

func (h *HTTPEndpoint) DisableOTP(r *router.Request) (any, error) {
	var req DisableOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return h.dispatch(r.Context(), DisableOTPAction{UserID: req.UserID})
}

func (h *HTTPEndpoint) dispatch(ctx context.Context, act Action) (any, error) {
	switch a := act.(type) {
	case SendOTPAction:
		if err := h.uc.SendOTP(ctx, usecase.SendOTPInput{Phone: a.Phone}); err != nil {
			return nil, err
		}
		return ok("OTP sent successfully"), nil

	case VerifyOTPAction:
		out, err := h.uc.VerifyOTP(ctx, usecase.VerifyOTPInput{Phone: a.Phone, OTP: a.OTP})
		if err != nil {
			return nil, err
		}
		resp := ok("OTP verified successfully")
		resp.Token = out.Token
		return resp, nil

	case ResetPasswordAction:
		if err := h.uc.ResetPassword(ctx, usecase.ResetPasswordInput{Token: a.Token, Password: a.Password}); err != nil {
			return nil, err
		}
		return ok("Password reset successfully"), nil

	case EnableOTPAction:
		if err := h.uc.EnableOTP(ctx, usecase.EnableOTPInput{UserID: a.UserID, Phone: a.Phone}); err != nil {
			return nil, err
		}
		return ok("OTP enabled successfully"), nil

	case DisableOTPAction:
		if err := h.uc.DisableOTP(ctx, usecase.DisableOTPInput{UserID: a.UserID}); err != nil {
			return nil, err
		}
		return ok("OTP disabled successfully"), nil

	default:
		return nil, errInvalidAction
	}
}
