package mocks

import (
	"context"
	"sync"

	"github.com/spec-kit/fieldreport-auth/internal/otp"
)

// MockOTPGateway records sends and accepts ValidCode on verify.
type MockOTPGateway struct {
	mu sync.Mutex

	// SendStatus defaults to "pending".
	SendStatus string
	SendErr    error
	ValidCode  string
	VerifyErr  error

	Sends    []string
	Verifies []string
}

// NewMockOTPGateway accepts validCode for every phone number.
func NewMockOTPGateway(validCode string) *MockOTPGateway {
	return &MockOTPGateway{ValidCode: validCode}
}

func (m *MockOTPGateway) Send(_ context.Context, phoneNumber string) (otp.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, phoneNumber)
	if m.SendErr != nil {
		return otp.SendResult{}, m.SendErr
	}
	status := m.SendStatus
	if status == "" {
		status = otp.StatusPending
	}
	return otp.SendResult{Status: status}, nil
}

func (m *MockOTPGateway) Verify(_ context.Context, phoneNumber, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verifies = append(m.Verifies, phoneNumber)
	if m.VerifyErr != nil {
		return false, m.VerifyErr
	}
	return code == m.ValidCode, nil
}

// SendCount returns how many sends were requested.
func (m *MockOTPGateway) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sends)
}

// VerifyCount returns how many verifications were requested.
func (m *MockOTPGateway) VerifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Verifies)
}

var _ otp.Gateway = (*MockOTPGateway)(nil)
