package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Trilha{},
		&model.Conteudo{},
		&model.Performance{},
		&model.ChatInteraction{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func newAnalyticsService(db *gorm.DB) *AnalyticsService {
	perfRepo := repository.NewPerformanceRepository(db)
	trilhaRepo := repository.NewTrilhaRepository(db, nil)
	return NewAnalyticsService(perfRepo, trilhaRepo)
}

func seedTrilhaWithConteudos(t *testing.T, db *gorm.DB, n int) (*model.Trilha, []model.Conteudo) {
	t.Helper()
	trilha := &model.Trilha{Titulo: "Go Fundamentals", Dificuldade: model.ProfileBeginner}
	require.NoError(t, db.Create(trilha).Error)

	conteudos := make([]model.Conteudo, n)
	for i := range conteudos {
		conteudos[i] = model.Conteudo{
			Titulo:   "Lesson",
			Tipo:     model.ContentText,
			TrilhaID: trilha.ID,
		}
		require.NoError(t, db.Create(&conteudos[i]).Error)
	}
	return trilha, conteudos
}

func perfOnDay(userID, conteudoID uint, day time.Time) model.Performance {
	return model.Performance{
		BaseModel:  model.BaseModel{UpdatedAt: day},
		UserID:     userID,
		ConteudoID: conteudoID,
		Progresso:  50,
	}
}

func TestLearningStreakConsecutiveDays(t *testing.T) {
	svc := &AnalyticsService{now: time.Now}
	today := time.Now()

	perfs := []model.Performance{
		perfOnDay(1, 1, today),
		perfOnDay(1, 2, today.AddDate(0, 0, -1)),
		perfOnDay(1, 3, today.AddDate(0, 0, -2)),
		// gap at day -3
		perfOnDay(1, 4, today.AddDate(0, 0, -4)),
	}

	require.Equal(t, 3, svc.learningStreak(perfs))
}

func TestLearningStreakCountsFromLastActiveDay(t *testing.T) {
	svc := &AnalyticsService{now: time.Now}
	today := time.Now()

	// Last activity was 5 days ago; the streak still counts back from there.
	perfs := []model.Performance{
		perfOnDay(1, 1, today.AddDate(0, 0, -5)),
		perfOnDay(1, 2, today.AddDate(0, 0, -6)),
	}

	require.Equal(t, 2, svc.learningStreak(perfs))
}

func TestLearningStreakDeduplicatesSameDay(t *testing.T) {
	svc := &AnalyticsService{now: time.Now}
	today := time.Now()

	perfs := []model.Performance{
		perfOnDay(1, 1, today),
		perfOnDay(1, 2, today.Add(-time.Hour)),
		perfOnDay(1, 3, today.AddDate(0, 0, -1)),
	}

	require.Equal(t, 2, svc.learningStreak(perfs))
}

func TestComputeLearningAnalyticsNoData(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	summary, err := svc.ComputeLearningAnalytics(42, 30)
	require.NoError(t, err)
	require.False(t, summary.HasData)
	require.Equal(t, 0, summary.LearningStreak)
	require.Zero(t, summary.CompletionRate)
	require.Zero(t, summary.TotalActivities)
}

func TestComputeLearningAnalyticsExampleScenario(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	user := &model.User{Name: "Ana", Email: "ana@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)
	_, conteudos := seedTrilhaWithConteudos(t, db, 2)

	grade := 90.0
	require.NoError(t, db.Create(&model.Performance{
		UserID: user.ID, ConteudoID: conteudos[0].ID, Progresso: 100, Nota: &grade,
	}).Error)
	require.NoError(t, db.Create(&model.Performance{
		UserID: user.ID, ConteudoID: conteudos[1].ID, Progresso: 40,
	}).Error)

	summary, err := svc.ComputeLearningAnalytics(user.ID, 30)
	require.NoError(t, err)
	require.True(t, summary.HasData)
	require.Equal(t, 2, summary.TotalActivities)
	require.Equal(t, 1, summary.CompletedCount)
	require.InDelta(t, 50.0, summary.CompletionRate, 0.001)
	require.InDelta(t, 70.0, summary.AvgProgressAllTime, 0.001)
	// Only the non-null grade counts.
	require.InDelta(t, 90.0, summary.AvgGradeAllTime, 0.001)
	require.GreaterOrEqual(t, summary.LearningStreak, 1)
}

func TestTrilhaProgressCompletionRate(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	user := &model.User{Name: "Bruno", Email: "bruno@example.com"}
	require.NoError(t, db.Create(user).Error)
	trilha, conteudos := seedTrilhaWithConteudos(t, db, 4)

	require.NoError(t, db.Create(&model.Performance{
		UserID: user.ID, ConteudoID: conteudos[0].ID, Progresso: 100,
	}).Error)
	require.NoError(t, db.Create(&model.Performance{
		UserID: user.ID, ConteudoID: conteudos[1].ID, Progresso: 30, TempoEst: 90,
	}).Error)

	progress, err := svc.TrilhaProgress(user.ID, trilha.ID)
	require.NoError(t, err)
	require.Equal(t, 4, progress.TotalContent)
	require.Equal(t, 1, progress.CompletedCount)
	require.InDelta(t, 25.0, progress.CompletionRate, 0.001)
	require.GreaterOrEqual(t, progress.CompletionRate, 0.0)
	require.LessOrEqual(t, progress.CompletionRate, 100.0)
	require.Equal(t, 90, progress.StudyMinutes)
	require.InDelta(t, 1.5, progress.StudyHours, 0.001)
}

func TestTrilhaProgressEmptyTrilha(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	trilha := &model.Trilha{Titulo: "Empty", Dificuldade: model.ProfileAdvanced}
	require.NoError(t, db.Create(trilha).Error)

	progress, err := svc.TrilhaProgress(7, trilha.ID)
	require.NoError(t, err)
	require.Zero(t, progress.CompletionRate)
	require.Zero(t, progress.TotalContent)
}

func TestTopPerformersRejectsUnknownMetric(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	_, err := svc.TopPerformers("charisma", 10)
	require.ErrorIs(t, err, util.ErrInvalidMetric)
}
