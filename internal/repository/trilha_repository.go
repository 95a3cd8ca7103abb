package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const popularCacheKey = "trilhas:popular"

type TrilhaRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewTrilhaRepository(db *gorm.DB, rdb *redis.Client) *TrilhaRepository {
	return &TrilhaRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *TrilhaRepository) Create(trilha *model.Trilha) error {
	return r.DB.Create(trilha).Error
}

func (r *TrilhaRepository) FindByID(id uint) (*model.Trilha, error) {
	var trilha model.Trilha
	err := r.DB.First(&trilha, id).Error
	if err != nil {
		return nil, err
	}
	return &trilha, nil
}

func (r *TrilhaRepository) FindWithConteudos(id uint) (*model.Trilha, error) {
	var trilha model.Trilha
	err := r.DB.Preload("Conteudos").First(&trilha, id).Error
	if err != nil {
		return nil, err
	}
	return &trilha, nil
}

func (r *TrilhaRepository) Update(trilha *model.Trilha) error {
	return r.DB.Save(trilha).Error
}

func (r *TrilhaRepository) List(difficulty string, page, limit int) ([]model.Trilha, int64, error) {
	var trilhas []model.Trilha
	var total int64

	query := r.DB.Model(&model.Trilha{})
	if difficulty != "" {
		query = query.Where("dificuldade = ?", difficulty)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&trilhas).Error
	return trilhas, total, err
}

func (r *TrilhaRepository) Search(term string, limit int) ([]model.Trilha, error) {
	var trilhas []model.Trilha
	err := r.DB.Where("titulo LIKE ?", "%"+term+"%").Limit(limit).Find(&trilhas).Error
	return trilhas, err
}

func (r *TrilhaRepository) FindByCriador(criadorID uint) ([]model.Trilha, error) {
	var trilhas []model.Trilha
	err := r.DB.Where("criador_id = ?", criadorID).Order("created_at DESC").Find(&trilhas).Error
	return trilhas, err
}

// FindByDifficulties returns up to limit trilhas in the given tiers,
// excluding the listed ids (the user's current enrollments).
func (r *TrilhaRepository) FindByDifficulties(tiers []string, excludeIDs []uint, limit int) ([]model.Trilha, error) {
	var trilhas []model.Trilha
	query := r.DB.Where("dificuldade IN ?", tiers)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Limit(limit).Find(&trilhas).Error
	return trilhas, err
}

// Popular ranks trilhas by enrollment count, most enrolled first.
func (r *TrilhaRepository) Popular(limit int) ([]model.PopularTrilha, error) {
	type row struct {
		model.Trilha
		EnrollmentCount int64
	}

	var rows []row
	err := r.DB.Model(&model.Trilha{}).
		Select("trilhas.*, COUNT(user_trilhas.user_id) AS enrollment_count").
		Joins("LEFT JOIN user_trilhas ON user_trilhas.trilha_id = trilhas.id").
		Group("trilhas.id").
		Order("enrollment_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	popular := make([]model.PopularTrilha, len(rows))
	for i, row := range rows {
		popular[i] = model.PopularTrilha{Trilha: row.Trilha, EnrollmentCount: row.EnrollmentCount}
	}
	return popular, nil
}

// PopularCached serves the popularity ranking from Redis when available,
// falling back to the database on a miss or when no cache is configured.
func (r *TrilhaRepository) PopularCached(limit int) ([]model.PopularTrilha, error) {
	if r.Redis != nil {
		data, err := r.Redis.Get(r.ctx, popularCacheKey).Bytes()
		if err == nil {
			var popular []model.PopularTrilha
			if json.Unmarshal(data, &popular) == nil {
				if len(popular) > limit {
					popular = popular[:limit]
				}
				return popular, nil
			}
		}
	}
	return r.Popular(limit)
}

// RefreshPopularCache recomputes the ranking and stores it in Redis. Called
// from the background refresher.
func (r *TrilhaRepository) RefreshPopularCache(topN int) error {
	if r.Redis == nil {
		return nil
	}
	popular, err := r.Popular(topN)
	if err != nil {
		return err
	}
	data, err := json.Marshal(popular)
	if err != nil {
		return err
	}
	return r.Redis.Set(r.ctx, popularCacheKey, data, 30*time.Minute).Err()
}

// EnrolledTrilhaIDs returns the ids of every trilha the user is enrolled in.
func (r *TrilhaRepository) EnrolledTrilhaIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Table("user_trilhas").Where("user_id = ?", userID).Pluck("trilha_id", &ids).Error
	return ids, err
}

func (r *TrilhaRepository) EnrolledTrilhas(userID uint) ([]model.Trilha, error) {
	var trilhas []model.Trilha
	err := r.DB.
		Joins("JOIN user_trilhas ON user_trilhas.trilha_id = trilhas.id").
		Where("user_trilhas.user_id = ?", userID).
		Order("trilhas.created_at DESC").
		Find(&trilhas).Error
	return trilhas, err
}

func (r *TrilhaRepository) IsEnrolled(userID, trilhaID uint) (bool, error) {
	var count int64
	err := r.DB.Table("user_trilhas").
		Where("user_id = ? AND trilha_id = ?", userID, trilhaID).
		Count(&count).Error
	return count > 0, err
}

func (r *TrilhaRepository) Enroll(user *model.User, trilha *model.Trilha) error {
	return r.DB.Model(user).Association("Trilhas").Append(trilha)
}

func (r *TrilhaRepository) CountEnrollments(trilhaID uint) (int64, error) {
	var count int64
	err := r.DB.Table("user_trilhas").Where("trilha_id = ?", trilhaID).Count(&count).Error
	return count, err
}

func (r *TrilhaRepository) CreateConteudo(conteudo *model.Conteudo) error {
	return r.DB.Create(conteudo).Error
}

func (r *TrilhaRepository) FindConteudoByID(id uint) (*model.Conteudo, error) {
	var conteudo model.Conteudo
	err := r.DB.First(&conteudo, id).Error
	if err != nil {
		return nil, err
	}
	return &conteudo, nil
}

func (r *TrilhaRepository) ConteudoIDs(trilhaID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Conteudo{}).Where("trilha_id = ?", trilhaID).Pluck("id", &ids).Error
	return ids, err
}

// Delete removes a trilha and everything hanging off it: performance records
// for its content, the content items, and the enrollment rows.
func (r *TrilhaRepository) Delete(trilhaID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var trilha model.Trilha
		if err := tx.Preload("Conteudos").First(&trilha, trilhaID).Error; err != nil {
			return err
		}

		conteudoIDs := make([]uint, len(trilha.Conteudos))
		for i, c := range trilha.Conteudos {
			conteudoIDs[i] = c.ID
		}

		if len(conteudoIDs) > 0 {
			if err := tx.Where("conteudo_id IN ?", conteudoIDs).
				Unscoped().Delete(&model.Performance{}).Error; err != nil {
				return err
			}
			if err := tx.Where("trilha_id = ?", trilhaID).
				Unscoped().Delete(&model.Conteudo{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec("DELETE FROM user_trilhas WHERE trilha_id = ?", trilhaID).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&trilha).Error
	})
}
