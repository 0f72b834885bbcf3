package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated   EventType = "user.created"
	EventOTPSent       EventType = "otp.sent"
	EventUserSignedIn  EventType = "user.signed_in"
	EventUserSignedUp  EventType = "user.signed_up"
	EventUserLoggedOut EventType = "user.logged_out"
)

// Event represents a domain event emitted by the auth service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// OTPSentPayload payload. Phone numbers are masked.
type OTPSentPayload struct {
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Resend bool   `json:"resend"`
}

// UserSignedUpPayload payload.
type UserSignedUpPayload struct {
	Status string `json:"status"`
}

// UserLoggedOutPayload payload.
type UserLoggedOutPayload struct {
	RevokedSessions int64 `json:"revoked_sessions"`
}
