package users

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Service handles user account management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create hashes the password and stores the account. The role is
// validated through ProfileFor, so an unknown role never reaches the
// database.
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	entityID := int64(0)
	if input.EntityID != nil {
		entityID = *input.EntityID
	}
	profile, err := ProfileFor(input.Role, entityID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     input.Username,
		Name:         input.Name,
		Email:        input.Email,
		Role:         profile.Role,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if profile.HasEntity() {
		id := profile.EntityID
		user.EntityID = &id
	}

	userID, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

// Update patches an account. A role change revalidates through
// ProfileFor; a password change rehashes.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Role != nil {
		entityID := int64(0)
		if input.EntityID != nil {
			entityID = *input.EntityID
		} else if user.EntityID != nil {
			entityID = *user.EntityID
		}
		profile, err := ProfileFor(*input.Role, entityID)
		if err != nil {
			return nil, err
		}
		updates["role"] = profile.Role
		if profile.HasEntity() {
			updates["entity_id"] = profile.EntityID
		} else {
			updates["entity_id"] = nil
		}
	} else if input.EntityID != nil {
		updates["entity_id"] = *input.EntityID
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ProfileOf resolves the stored account into its role profile.
func (s *Service) ProfileOf(ctx context.Context, id int64) (Profile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	entityID := int64(0)
	if user.EntityID != nil {
		entityID = *user.EntityID
	}
	return ProfileFor(user.Role, entityID)
}
