package entity

import "time"

// OTP is a pending one-time code. There is at most one per phone number.
type OTP struct {
	ID          int64
	PhoneNumber string
	Code        string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// LiveAt reports whether the code can still be redeemed at now.
func (o OTP) LiveAt(now time.Time) bool {
	return now.Before(o.ExpiresAt)
}
