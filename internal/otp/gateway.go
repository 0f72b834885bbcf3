// Package otp adapts external one-time passcode providers.
package otp

import "context"

// Send statuses the orchestrator treats as a successful send.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
)

// SendResult carries the provider status of a send request.
type SendResult struct {
	Status string
}

// Accepted reports whether the provider accepted the send.
func (r SendResult) Accepted() bool {
	return r.Status == StatusApproved || r.Status == StatusPending
}

// Gateway sends and verifies codes for a phone number. Implementations own
// all challenge state.
type Gateway interface {
	Send(ctx context.Context, phoneNumber string) (SendResult, error)
	Verify(ctx context.Context, phoneNumber, code string) (bool, error)
}
