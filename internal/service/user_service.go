package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medtracker/internal/cache"
	"medtracker/internal/model"
	"medtracker/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user lookups used on every authenticated request, plus
// the account administration operations behind the admin command.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	Invalidate(ctx context.Context, id uint)
	SetActive(ctx context.Context, username string, active bool) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetUser reads through the cache. Cached users carry no password hash.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) Invalidate(ctx context.Context, id uint) {
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}

// SetActive enables or disables an account. Sessions of a disabled user are
// rejected on their next request.
func (s *userService) SetActive(ctx context.Context, username string, active bool) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, user.ID, active); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}
	s.Invalidate(ctx, user.ID)
	user.IsActive = active
	return user, nil
}

// DeleteUser removes the account and all of its medicines.
func (s *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.Invalidate(ctx, user.ID)
	return nil
}
