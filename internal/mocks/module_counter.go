package mocks

import (
	"context"

	"github.com/spec-kit/fieldreport-auth/internal/repository"
)

// MockModuleCounter returns a fixed onboarding module count.
type MockModuleCounter struct {
	Count int
	Err   error
}

func (m *MockModuleCounter) CountActiveOnboarding(context.Context) (int, error) {
	return m.Count, m.Err
}

var _ repository.ModuleCounter = (*MockModuleCounter)(nil)
