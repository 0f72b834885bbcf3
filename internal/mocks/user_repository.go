package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fieldreport-auth/internal/domain"
	"github.com/spec-kit/fieldreport-auth/internal/repository"
)

// MockUserRepository is an in-memory UserRepository. Setting a Func field
// overrides the default behaviour for that method.
type MockUserRepository struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	phones map[string]string

	CreateCalls int
	UpdateCalls int

	CreateMinimalFunc func(ctx context.Context, phoneNumber string) (*domain.User, error)
	UpdateProfileFunc func(ctx context.Context, id string, profile domain.Profile, status domain.UserStatus) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByPhoneFunc    func(ctx context.Context, phoneNumber string) (*domain.User, error)
}

// NewMockUserRepository creates an empty repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		byID:   make(map[string]*domain.User),
		phones: make(map[string]string),
	}
}

// Seed stores a copy of user, assigning an id when missing.
func (m *MockUserRepository) Seed(user domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleUser
	}
	if user.Status == "" {
		user.Status = domain.UserStatusUnset
	}
	stored := user
	m.byID[user.ID] = &stored
	m.phones[user.PhoneNumber] = user.ID
	return copyUser(&stored)
}

// SetStatus changes the stored status, simulating an administrative action.
func (m *MockUserRepository) SetStatus(id string, status domain.UserStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.Status = status
	}
}

// Count returns the number of stored users.
func (m *MockUserRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *MockUserRepository) CreateMinimal(ctx context.Context, phoneNumber string) (*domain.User, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateMinimalFunc != nil {
		return m.CreateMinimalFunc(ctx, phoneNumber)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.phones[phoneNumber]; exists {
		return nil, domain.ErrPhoneTaken
	}
	user := &domain.User{
		ID:          uuid.NewString(),
		PhoneNumber: phoneNumber,
		Role:        domain.UserRoleUser,
		Status:      domain.UserStatusUnset,
		CreatedAt:   time.Now(),
	}
	m.byID[user.ID] = user
	m.phones[phoneNumber] = user.ID
	return copyUser(user), nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, profile domain.Profile, status domain.UserStatus) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, profile, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	name := profile.Name
	now := time.Now()
	user.Name = &name
	user.Email = profile.Email
	user.Gender = profile.Gender
	user.Age = profile.Age
	user.Occupation = profile.Occupation
	user.Status = status
	user.LastActiveAt = &now
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phoneNumber)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.phones[phoneNumber]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(m.byID[id]), nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

var _ repository.UserRepository = (*MockUserRepository)(nil)
