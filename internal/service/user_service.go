package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	app_errors "mediai/backend/internal/errors"
	"mediai/backend/internal/model"
	"mediai/backend/internal/repository"
)

// UserService serves the signed-in user's own account.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Me returns the account of userID.
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

// UpdateProfile replaces the editable profile fields. The full name is
// required; blank optional fields are cleared.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error) {
	update.FullName = strings.TrimSpace(update.FullName)
	if update.FullName == "" {
		return nil, fmt.Errorf("%w: Full name is required", app_errors.ErrValidation)
	}
	update.PhoneNumber = trimmedOrNil(update.PhoneNumber)
	update.Specialization = trimmedOrNil(update.Specialization)

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, translateUserError(err)
	}
	log.Ctx(ctx).Info().Str("user_id", userID).Msg("Profile updated")
	return user, nil
}

func translateUserError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: User not found", app_errors.ErrNotFound)
	}
	return fmt.Errorf("%w: %v", app_errors.ErrInternal, err)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
