package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"medtracker/internal/auth"
	apperrors "medtracker/internal/errors"
	"medtracker/internal/model"
	"medtracker/internal/repository"
	"medtracker/internal/validation"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = apperrors.NewAuthError("invalid username or password")
	// ErrAccountDisabled is returned when the credentials match a disabled account.
	ErrAccountDisabled = apperrors.NewAuthError("this account is disabled")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = apperrors.NewValidationError("username is already taken")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = apperrors.NewValidationError("email is already in use")
	// ErrMissingCredentials is returned when login omits username or password.
	ErrMissingCredentials = apperrors.NewValidationError("username and password are required")
)

// LoginResult carries a freshly established session and its signed token.
type LoginResult struct {
	User    *model.User
	Session *auth.Session
	Token   string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password, confirmPassword string) (*model.User, error)
	Login(ctx context.Context, username, password string, previous *auth.Session) (*LoginResult, error)
	Logout(ctx context.Context, sess *auth.Session) (bool, error)
	CurrentUser(ctx context.Context, sess *auth.Session) (*model.User, error)
	Authenticate(ctx context.Context, claims *auth.Claims) (*auth.Session, error)
}

type authService struct {
	userRepo   repository.UserRepository
	users      UserService
	jwtService *auth.JWTService
	sessions   auth.SessionStoreInterface
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	users UserService,
	jwtService *auth.JWTService,
	sessions auth.SessionStoreInterface,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		users:      users,
		jwtService: jwtService,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Register validates the payload and creates an active user with a hashed password.
func (s *authService) Register(ctx context.Context, username, email, password, confirmPassword string) (*model.User, error) {
	reg, err := validation.Register(username, email, password, confirmPassword)
	if err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, reg.Username, reg.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration; report which field.
			if err := s.checkAvailable(ctx, reg.Username, reg.Email); err != nil {
				return nil, err
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *authService) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return ErrUsernameTaken
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

// Login verifies credentials, opens a session and records last_login. The
// caller's previous session, if any, is destroyed once the new one is stored.
func (s *authService) Login(ctx context.Context, username, password string, previous *auth.Session) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Keep timing close to the wrong-password path.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now()
	sess := auth.NewSession(user.ID, now, s.sessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	lastLogin := now
	if user.LastLogin != nil && user.LastLogin.After(lastLogin) {
		lastLogin = *user.LastLogin
	}
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, lastLogin); err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &lastLogin
	s.users.Invalidate(ctx, user.ID)

	if previous != nil && previous.ID != sess.ID {
		_ = s.sessions.Delete(ctx, previous.ID)
	}

	return &LoginResult{User: user, Session: sess, Token: token}, nil
}

// Logout destroys the session. It reports false when there was nothing to
// destroy.
func (s *authService) Logout(ctx context.Context, sess *auth.Session) (bool, error) {
	if sess == nil {
		return false, nil
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return true, nil
}

// CurrentUser returns the user behind sess.
func (s *authService) CurrentUser(ctx context.Context, sess *auth.Session) (*model.User, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Authenticate resolves verified token claims to a live session. The session
// must exist in the store, belong to the token's user, be unexpired, and its
// user must still exist and be active.
func (s *authService) Authenticate(ctx context.Context, claims *auth.Claims) (*auth.Session, error) {
	if claims == nil || claims.ID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil || sess.UserID != claims.UserID || sess.Expired(time.Now()) {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, sess.ID)
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, apperrors.ErrUnauthenticated
	}

	return sess, nil
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue []byte
)

func dummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = bcrypt.GenerateFromPassword([]byte("medtracker-dummy-password"), bcryptCost)
	})
	return dummyHashValue
}
