package otp

import (
	"context"

	"go.uber.org/zap"
)

// DevGateway stands in for a real provider during local development. Every
// send is pending and only the configured code verifies.
type DevGateway struct {
	code   string
	logger *zap.Logger
}

// NewDevGateway builds a gateway accepting code.
func NewDevGateway(code string, logger *zap.Logger) *DevGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DevGateway{code: code, logger: logger}
}

func (g *DevGateway) Send(_ context.Context, phoneNumber string) (SendResult, error) {
	g.logger.Info("dev otp gateway: code issued", zap.String("phone", MaskPhone(phoneNumber)))
	return SendResult{Status: StatusPending}, nil
}

func (g *DevGateway) Verify(_ context.Context, _ string, code string) (bool, error) {
	return g.code != "" && code == g.code, nil
}

// MaskPhone keeps the last four digits of a phone number for logs.
func MaskPhone(phoneNumber string) string {
	if len(phoneNumber) <= 4 {
		return "****"
	}
	masked := make([]byte, len(phoneNumber))
	for i := range phoneNumber {
		if i < len(phoneNumber)-4 && phoneNumber[i] != '+' {
			masked[i] = '*'
		} else {
			masked[i] = phoneNumber[i]
		}
	}
	return string(masked)
}
