package services

import (
	"context"
	"fmt"

	"github.com/echo-social/echo-server/internal/model"
	"github.com/echo-social/echo-server/internal/store"
)

// UserService orchestrates user-related use cases.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

func (s *UserService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	return s.store.Users().Create(ctx, u)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

// UpdateProfile changes the editable profile fields (avatar, bio).
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd model.UserUpdate) (*model.User, error) {
	if upd.Bio != nil && len(*upd.Bio) > 500 {
		return nil, fmt.Errorf("bio exceeds 500 characters: %w", model.ErrValidation)
	}
	return s.store.Users().Update(ctx, userID, upd)
}
