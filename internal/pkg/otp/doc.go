// Package otp generates numeric one-time codes delivered over SMS.
package otp
