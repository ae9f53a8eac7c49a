package service

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.UserRepository
	logger *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, name, email string) (dto.UserView, error) {
	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return dto.UserView{}, err
	}
	if taken {
		return dto.UserView{}, fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, email)
	}

	user := &models.User{Name: name, Email: email}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return dto.UserView{}, err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("User created")
	return dto.NewUserView(*user), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (dto.UserView, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return dto.UserView{}, err
	}
	return dto.NewUserView(*user), nil
}

func (s *UserService) List(ctx context.Context) ([]dto.UserView, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserViews(users), nil
}

// Update applies a partial update. Absent or blank fields keep their value.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (dto.UserView, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return dto.UserView{}, err
	}

	if name, ok := models.NonBlank(patch.Name); ok {
		user.Name = name
	}
	if email, ok := models.NonBlank(patch.Email); ok && email != user.Email {
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return dto.UserView{}, err
		}
		if taken {
			return dto.UserView{}, fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, email)
		}
		user.Email = email
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return dto.UserView{}, err
	}
	return dto.NewUserView(*user), nil
}

// Delete removes the user together with everything they own or booked.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}
