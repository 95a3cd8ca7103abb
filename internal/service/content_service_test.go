package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"
)

func newContentService(db *gorm.DB) *ContentService {
	userRepo := repository.NewUserRepository(db)
	trilhaRepo := repository.NewTrilhaRepository(db, nil)
	perfRepo := repository.NewPerformanceRepository(db)
	analytics := NewAnalyticsService(perfRepo, trilhaRepo)
	return NewContentService(trilhaRepo, userRepo, perfRepo, analytics)
}

func TestEnrollTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	user := &model.User{Name: "Nina", Email: "nina@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)
	trilha := &model.Trilha{Titulo: "Go Basics", Dificuldade: model.ProfileBeginner}
	require.NoError(t, db.Create(trilha).Error)

	require.NoError(t, svc.Enroll(user.ID, trilha.ID))
	require.ErrorIs(t, svc.Enroll(user.ID, trilha.ID), util.ErrAlreadyEnrolled)
}

func TestEnrollMissingTrilha(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	user := &model.User{Name: "Nina", Email: "nina@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)

	require.ErrorIs(t, svc.Enroll(user.ID, 999), util.ErrTrilhaNotFound)
	require.ErrorIs(t, svc.Enroll(999, 1), util.ErrUserNotFound)
}

func TestUpdateProgressValidatesRanges(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	user := &model.User{Name: "Nina", Email: "nina@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)
	trilha := &model.Trilha{Titulo: "Go Basics", Dificuldade: model.ProfileBeginner}
	require.NoError(t, db.Create(trilha).Error)
	conteudo := &model.Conteudo{Titulo: "Intro", Tipo: "video", TrilhaID: trilha.ID}
	require.NoError(t, db.Create(conteudo).Error)

	_, err := svc.UpdateProgress(user.ID, conteudo.ID, 120, nil, 0)
	require.ErrorIs(t, err, util.ErrInvalidProgress)

	bad := 101.0
	_, err = svc.UpdateProgress(user.ID, conteudo.ID, 50, &bad, 0)
	require.ErrorIs(t, err, util.ErrInvalidGrade)

	_, err = svc.UpdateProgress(user.ID, 999, 50, nil, 0)
	require.ErrorIs(t, err, util.ErrConteudoNotFound)
}

func TestUpdateProgressClampsNegativeStudyTime(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	user := &model.User{Name: "Nina", Email: "nina@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)
	trilha := &model.Trilha{Titulo: "Go Basics", Dificuldade: model.ProfileBeginner}
	require.NoError(t, db.Create(trilha).Error)
	conteudo := &model.Conteudo{Titulo: "Intro", Tipo: "video", TrilhaID: trilha.ID}
	require.NoError(t, db.Create(conteudo).Error)

	perf, err := svc.UpdateProgress(user.ID, conteudo.ID, 40, nil, -30)
	require.NoError(t, err)
	require.Equal(t, 0, perf.TempoEst)
}

func TestGetTrilhaContentIncludesProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	user := &model.User{Name: "Nina", Email: "nina@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)
	trilha := &model.Trilha{Titulo: "Go Basics", Dificuldade: model.ProfileBeginner}
	require.NoError(t, db.Create(trilha).Error)
	first := &model.Conteudo{Titulo: "Intro", Tipo: "video", TrilhaID: trilha.ID}
	second := &model.Conteudo{Titulo: "Syntax", Tipo: "text", TrilhaID: trilha.ID}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	_, err := svc.UpdateProgress(user.ID, first.ID, 100, nil, 45)
	require.NoError(t, err)

	content, err := svc.GetTrilhaContent(trilha.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, content.Conteudos, 2)

	byID := make(map[uint]ConteudoProgress)
	for _, item := range content.Conteudos {
		byID[item.Conteudo.ID] = item
	}
	require.Equal(t, 100.0, byID[first.ID].Progresso)
	require.True(t, byID[first.ID].Completed)
	require.Equal(t, 0.0, byID[second.ID].Progresso)
	require.False(t, byID[second.ID].Completed)
}

func TestCreateTrilhaRejectsUnknownDifficulty(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	_, err := svc.CreateTrilha(1, "Mystery", "expert")
	require.Error(t, err)
}
