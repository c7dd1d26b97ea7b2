package event

import "time"

const PhoneOTPIssuedDestination string = "phone_otp_issued"
const PhoneOTPIssuedConsumerSMS string = "phone_otp_issued_sms"

// PhoneOTPIssuedMessage asks the notification side to text a freshly issued
// code. EventID is stable across redeliveries of the same message.
type PhoneOTPIssuedMessage struct {
	EventID     int64     `json:"event_id"`
	PhoneNumber string    `json:"phone_number"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issued_at"`
}
