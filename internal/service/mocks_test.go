package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"medtracker/internal/auth"
	"medtracker/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Invalidate(ctx context.Context, id uint) {
	m.Called(ctx, id)
}

func (m *MockUserService) SetActive(ctx context.Context, username string, active bool) (*model.User, error) {
	args := m.Called(ctx, username, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, sess *auth.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMedicineRepository is a mock implementation of MedicineRepository.
type MockMedicineRepository struct {
	mock.Mock
}

func (m *MockMedicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	args := m.Called(ctx, medicine)
	return args.Error(0)
}

func (m *MockMedicineRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Medicine, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) FindByIDForOwner(ctx context.Context, ownerID, id uint) (*model.Medicine, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Update(ctx context.Context, medicine *model.Medicine) error {
	args := m.Called(ctx, medicine)
	return args.Error(0)
}

func (m *MockMedicineRepository) DeleteForOwner(ctx context.Context, ownerID, id uint) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
