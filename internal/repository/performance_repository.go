package repository

import (
	"math"
	"time"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"

	"gorm.io/gorm"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

// FindByUser returns the user's performance records, newest first.
func (r *PerformanceRepository) FindByUser(userID uint, limit int) ([]model.Performance, error) {
	var perfs []model.Performance
	query := r.DB.Preload("Conteudo").
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&perfs).Error
	return perfs, err
}

func (r *PerformanceRepository) FindByUserAndConteudo(userID, conteudoID uint) (*model.Performance, error) {
	var perf model.Performance
	err := r.DB.Where("user_id = ? AND conteudo_id = ?", userID, conteudoID).First(&perf).Error
	if err != nil {
		return nil, err
	}
	return &perf, nil
}

// FindByUserForConteudos returns the user's records restricted to the given
// content items (one trilha's worth, typically).
func (r *PerformanceRepository) FindByUserForConteudos(userID uint, conteudoIDs []uint) ([]model.Performance, error) {
	if len(conteudoIDs) == 0 {
		return nil, nil
	}
	var perfs []model.Performance
	err := r.DB.Where("user_id = ? AND conteudo_id IN ?", userID, conteudoIDs).Find(&perfs).Error
	return perfs, err
}

// FindByConteudos returns every user's records for the given content items.
func (r *PerformanceRepository) FindByConteudos(conteudoIDs []uint) ([]model.Performance, error) {
	if len(conteudoIDs) == 0 {
		return nil, nil
	}
	var perfs []model.Performance
	err := r.DB.Where("conteudo_id IN ?", conteudoIDs).Find(&perfs).Error
	return perfs, err
}

// UpsertProgress creates or updates the (user, conteudo) record.
// Progress never decreases: the stored value is max(old, new). A supplied
// grade overwrites the previous one; study time accumulates.
func (r *PerformanceRepository) UpsertProgress(userID, conteudoID uint, progresso float64, nota *float64, tempoEstudo int) (*model.Performance, error) {
	var perf model.Performance

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND conteudo_id = ?", userID, conteudoID).
			First(&perf).Error
		if err == gorm.ErrRecordNotFound {
			perf = model.Performance{
				UserID:     userID,
				ConteudoID: conteudoID,
				Progresso:  progresso,
				Nota:       nota,
				TempoEst:   tempoEstudo,
			}
			return tx.Create(&perf).Error
		}
		if err != nil {
			return err
		}

		if progresso > perf.Progresso {
			perf.Progresso = progresso
		}
		if nota != nil {
			perf.Nota = nota
		}
		perf.TempoEst += tempoEstudo
		perf.UpdatedAt = time.Now()

		return tx.Save(&perf).Error
	})
	if err != nil {
		return nil, err
	}
	return &perf, nil
}

func (r *PerformanceRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Performance{}).Error
}

// TopPerformers ranks users by the given metric: "progress" (average
// progress), "grade" (average grade over graded records) or "study_time"
// (total minutes).
func (r *PerformanceRepository) TopPerformers(metric string, limit int) ([]model.TopPerformer, error) {
	type row struct {
		UserID          uint
		Value           float64
		TotalActivities int
	}

	var rows []row
	base := r.DB.Model(&model.Performance{}).Group("user_id").Limit(limit)

	var err error
	switch metric {
	case "progress":
		err = base.Select("user_id, AVG(progresso) AS value, COUNT(id) AS total_activities").
			Order("value DESC").Scan(&rows).Error
	case "grade":
		err = base.Select("user_id, AVG(nota) AS value, COUNT(id) AS total_activities").
			Where("nota IS NOT NULL").
			Order("value DESC").Scan(&rows).Error
	case "study_time":
		err = base.Select("user_id, SUM(tempo_estudo) AS value, COUNT(id) AS total_activities").
			Order("value DESC").Scan(&rows).Error
	default:
		return nil, gorm.ErrInvalidValue
	}
	if err != nil {
		return nil, err
	}

	performers := make([]model.TopPerformer, 0, len(rows))
	for _, row := range rows {
		var user model.User
		if err := r.DB.First(&user, row.UserID).Error; err != nil {
			continue
		}
		value := row.Value
		if metric == "study_time" {
			value = round2(value / 60) // hours
		} else {
			value = round2(value)
		}
		performers = append(performers, model.TopPerformer{
			UserID:          row.UserID,
			Name:            user.Name,
			Email:           user.Email,
			TotalActivities: row.TotalActivities,
			Value:           value,
			Metric:          metric,
		})
	}
	return performers, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
