package service

import (
	"errors"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"

	"gorm.io/gorm"
)

// UserService covers profile management on top of the user repository.
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindWithTrilhas(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-zero fields of the update. An email change
// must not collide with another account.
func (s *UserService) UpdateProfile(userID uint, name, email, learningProfile string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" && email != user.Email {
		if !util.IsValidEmail(email) {
			return nil, util.ErrInvalidEmail
		}
		existing, err := s.UserRepo.FindByEmail(email)
		if err == nil && existing.ID != userID {
			return nil, util.ErrEmailRegistered
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if learningProfile != "" {
		if !util.ValidDifficulty(learningProfile) {
			return nil, errors.New("unknown learning profile")
		}
		user.LearningProfile = learningProfile
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Search(term string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.UserRepo.Search(term, limit)
}

// Delete removes the account together with its performance records and
// enrollments.
func (s *UserService) Delete(userID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.Delete(userID)
}
