package user

import (
	"context"
	"strings"

	dom "example.com/storefront/internal/domain/user"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

type UpdateProfileInput struct {
	UserID  int64
	Name    *string
	Phone   *string
	Address *string
}

type ChangeRoleInput struct {
	ExecutorID int64
	TargetID   int64
	Role       dom.Role
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*dom.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the contact fields a buyer edits on the account page.
func (s *Service) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*dom.User, error) {
	u, err := s.repo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			u.Name = name
		}
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		u.Address = strings.TrimSpace(*in.Address)
	}

	return s.repo.Update(ctx, u)
}

func (s *Service) List(ctx context.Context, filter dom.ListUsersFilter) ([]*dom.User, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) ChangeRole(ctx context.Context, in ChangeRoleInput) (*dom.User, error) {
	if !in.Role.IsValid() {
		return nil, dom.ErrInvalidRole
	}

	executor, err := s.repo.GetByID(ctx, in.ExecutorID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if !dom.CanChangeRole(executor, target, in.Role) {
		return nil, dom.ErrCannotAssignRole
	}

	target.Role = in.Role
	return s.repo.Update(ctx, target)
}

func (s *Service) Delete(ctx context.Context, executorID, id int64) error {
	if executorID == id {
		return dom.ErrCannotDeleteSelf
	}
	return s.repo.Delete(ctx, id)
}
