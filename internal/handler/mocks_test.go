package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medtracker/internal/auth"
	"medtracker/internal/model"
	"medtracker/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password, confirmPassword string) (*model.User, error) {
	args := m.Called(ctx, username, email, password, confirmPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string, previous *auth.Session) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password, previous)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sess *auth.Session) (bool, error) {
	args := m.Called(ctx, sess)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, sess *auth.Session) (*model.User, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, claims *auth.Claims) (*auth.Session, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

// MockMedicineService is a mock implementation of service.MedicineService.
type MockMedicineService struct {
	mock.Mock
}

func (m *MockMedicineService) List(ctx context.Context, ownerID uint) ([]model.Medicine, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func (m *MockMedicineService) Create(ctx context.Context, ownerID uint, in service.MedicineInput) (*model.Medicine, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

func (m *MockMedicineService) Get(ctx context.Context, ownerID, id uint) (*model.Medicine, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

func (m *MockMedicineService) Update(ctx context.Context, ownerID, id uint, in service.MedicineInput) (*model.Medicine, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

func (m *MockMedicineService) Delete(ctx context.Context, ownerID, id uint) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
