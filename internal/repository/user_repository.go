package repository

import (
	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindWithTrilhas(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Trilhas").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) Search(term string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + term + "%"
	err := r.DB.Where("name LIKE ? OR email LIKE ?", pattern, pattern).
		Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", gorm.Expr("CURRENT_TIMESTAMP")).
		Error
}

// Delete removes the user along with their performance records and
// enrollment rows.
func (r *UserRepository) Delete(userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).
			Unscoped().Delete(&model.Performance{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_trilhas WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
}
