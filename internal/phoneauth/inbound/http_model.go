package inbound

import (
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"github.com/shandysiswandi/codelens/internal/pkg/router"
)

const (
	ActionSendOTP       = "send_otp"
	ActionVerifyOTP     = "verify_otp"
	ActionResetPassword = "reset_password"
	ActionEnableOTP     = "enable_otp"
	ActionDisableOTP    = "disable_otp"
)

// Action is one decoded phone-auth request. The set of implementations is
// closed to this package.
type Action interface {
	action() string
}

type SendOTPAction struct {
	Phone string
}

type VerifyOTPAction struct {
	Phone string
	OTP   string
}

type ResetPasswordAction struct {
	Token    string
	Password string
}

type EnableOTPAction struct {
	UserID string
	Phone  string
}

type DisableOTPAction struct {
	UserID string
}

func (SendOTPAction) action() string       { return ActionSendOTP }
func (VerifyOTPAction) action() string     { return ActionVerifyOTP }
func (ResetPasswordAction) action() string { return ActionResetPassword }
func (EnableOTPAction) action() string     { return ActionEnableOTP }
func (DisableOTPAction) action() string    { return ActionDisableOTP }

type PhoneAuthRequest struct {
	Action   string `json:"action"`
	Phone    string `json:"phone"`
	OTP      string `json:"otp"`
	Token    string `json:"token"`
	Password string `json:"password"`
	UserID   string `json:"user_id"`
}

// DecodeAction turns a request body into exactly one Action.
func DecodeAction(body []byte) (Action, error) {
	var req PhoneAuthRequest
	if err := router.DecodeJSON(body, &req); err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionSendOTP:
		return SendOTPAction{Phone: req.Phone}, nil
	case ActionVerifyOTP:
		return VerifyOTPAction{Phone: req.Phone, OTP: req.OTP}, nil
	case ActionResetPassword:
		return ResetPasswordAction{Token: req.Token, Password: req.Password}, nil
	case ActionEnableOTP:
		return EnableOTPAction{UserID: req.UserID, Phone: req.Phone}, nil
	case ActionDisableOTP:
		return DisableOTPAction{UserID: req.UserID}, nil
	default:
		return nil, errInvalidAction
	}
}

var errInvalidAction = goerror.NewInvalidInput("Invalid action", nil)

type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type EnableOTPRequest struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
}

type DisableOTPRequest struct {
	UserID string `json:"user_id"`
}

type PhoneAuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func ok(msg string) PhoneAuthResponse {
	return PhoneAuthResponse{Success: true, Message: msg}
}
