package entity

// Profile is the part of a user profile the phone flows read and write.
type Profile struct {
	ID           string
	Email        string
	Name         string
	MobileNumber string
	OTPEnabled   bool
}
