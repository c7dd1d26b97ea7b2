// Package sms defines the contract for delivering one-time codes by text
// message, plus the providers the service ships with.
//
// Callers depend on the Provider interface only. The concrete provider is
// picked from configuration at startup with NewFromConfig.
package sms
