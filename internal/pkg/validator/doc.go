// Package validator checks request and domain structs against struct tags.
//
// Besides the go-playground built-ins it registers:
//
//	phone    E.164-style number: optional "+", no leading zero, 2..15 digits
//	otpcode  4..9 ASCII digits, the lengths the otp generator issues
//	password 8..72 characters (the bcrypt input limit)
package validator
