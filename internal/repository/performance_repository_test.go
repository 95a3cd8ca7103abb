package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
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
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func floatPtr(v float64) *float64 { return &v }

func TestUpsertProgressCreatesRecord(t *testing.T) {
	repo := NewPerformanceRepository(newTestDB(t))

	perf, err := repo.UpsertProgress(1, 10, 25, nil, 15)
	require.NoError(t, err)
	require.Equal(t, 25.0, perf.Progresso)
	require.Nil(t, perf.Nota)
	require.Equal(t, 15, perf.TempoEst)
}

func TestUpsertProgressNeverDecreases(t *testing.T) {
	repo := NewPerformanceRepository(newTestDB(t))

	_, err := repo.UpsertProgress(1, 10, 80, nil, 0)
	require.NoError(t, err)

	// A lower report keeps the stored maximum.
	perf, err := repo.UpsertProgress(1, 10, 30, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 80.0, perf.Progresso)

	perf, err = repo.UpsertProgress(1, 10, 95, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 95.0, perf.Progresso)
}

func TestUpsertProgressGradeOverwritesAndTimeAccumulates(t *testing.T) {
	repo := NewPerformanceRepository(newTestDB(t))

	_, err := repo.UpsertProgress(1, 10, 50, floatPtr(70), 30)
	require.NoError(t, err)

	perf, err := repo.UpsertProgress(1, 10, 60, floatPtr(85), 20)
	require.NoError(t, err)
	require.NotNil(t, perf.Nota)
	require.Equal(t, 85.0, *perf.Nota)
	require.Equal(t, 50, perf.TempoEst)

	// Omitting the grade keeps the previous one.
	perf, err = repo.UpsertProgress(1, 10, 60, nil, 10)
	require.NoError(t, err)
	require.NotNil(t, perf.Nota)
	require.Equal(t, 85.0, *perf.Nota)
	require.Equal(t, 60, perf.TempoEst)
}

func TestUpsertProgressKeepsOneRowPerConteudo(t *testing.T) {
	db := newTestDB(t)
	repo := NewPerformanceRepository(db)

	_, err := repo.UpsertProgress(1, 10, 20, nil, 5)
	require.NoError(t, err)
	_, err = repo.UpsertProgress(1, 10, 40, nil, 5)
	require.NoError(t, err)
	_, err = repo.UpsertProgress(1, 11, 10, nil, 5)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Performance{}).Where("user_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestTopPerformersRejectsUnknownMetric(t *testing.T) {
	repo := NewPerformanceRepository(newTestDB(t))

	_, err := repo.TopPerformers("charisma", 5)
	require.Error(t, err)
}

func TestTopPerformersByStudyTime(t *testing.T) {
	db := newTestDB(t)
	repo := NewPerformanceRepository(db)

	alice := &model.User{Name: "Alice", Email: "alice@example.com", LearningProfile: model.ProfileBeginner}
	bob := &model.User{Name: "Bob", Email: "bob@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	_, err := repo.UpsertProgress(alice.ID, 10, 50, nil, 120)
	require.NoError(t, err)
	_, err = repo.UpsertProgress(bob.ID, 10, 50, nil, 30)
	require.NoError(t, err)

	performers, err := repo.TopPerformers("study_time", 5)
	require.NoError(t, err)
	require.Len(t, performers, 2)
	require.Equal(t, alice.ID, performers[0].UserID)
	require.Equal(t, 2.0, performers[0].Value)
	require.Equal(t, 0.5, performers[1].Value)
}
