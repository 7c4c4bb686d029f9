package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	app_errors "mediai/backend/internal/errors"
	"mediai/backend/internal/model"
	"mediai/backend/internal/repository"
)

// AdminService backs the admin dashboard. Every operation first checks that
// the acting user is an admin.
type AdminService struct {
	users repository.UserRepository
}

func NewAdminService(users repository.UserRepository) *AdminService {
	return &AdminService{users: users}
}

func (s *AdminService) ListUsers(ctx context.Context, actorID string) ([]model.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list users: %v", app_errors.ErrInternal, err)
	}
	return users, nil
}

// SetUserActive enables or disables an account. Admins cannot deactivate
// their own account.
func (s *AdminService) SetUserActive(ctx context.Context, actorID, userID string, active bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if actorID == userID && !active {
		return fmt.Errorf("%w: cannot deactivate your own account", app_errors.ErrConflict)
	}
	if err := s.users.SetUserActive(ctx, userID, active); err != nil {
		return translateUserError(err)
	}
	log.Ctx(ctx).Info().Str("actor_id", actorID).Str("user_id", userID).Bool("active", active).Msg("User status updated")
	return nil
}

func (s *AdminService) ListTextbooks(ctx context.Context, actorID string) ([]model.Textbook, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	textbooks, err := s.users.ListTextbooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list textbooks: %v", app_errors.ErrInternal, err)
	}
	return textbooks, nil
}

func (s *AdminService) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := s.users.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: Admin access required", app_errors.ErrPermission)
		}
		return fmt.Errorf("%w: could not load user: %v", app_errors.ErrInternal, err)
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: Admin access required", app_errors.ErrPermission)
	}
	return nil
}
