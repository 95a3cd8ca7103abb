package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func newRecommendationService(db *gorm.DB, gen TextGenerator) *RecommendationService {
	userRepo := repository.NewUserRepository(db)
	trilhaRepo := repository.NewTrilhaRepository(db, nil)
	perfRepo := repository.NewPerformanceRepository(db)
	analytics := NewAnalyticsService(perfRepo, trilhaRepo)
	return NewRecommendationService(userRepo, trilhaRepo, perfRepo, analytics, gen)
}

func seedUserAndTrilhas(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{Name: "Carla", Email: "carla@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)

	for _, tr := range []model.Trilha{
		{Titulo: "Go Basics", Dificuldade: model.ProfileBeginner},
		{Titulo: "Web APIs", Dificuldade: model.ProfileIntermediate},
		{Titulo: "Distributed Systems", Dificuldade: model.ProfileAdvanced},
	} {
		trilha := tr
		require.NoError(t, db.Create(&trilha).Error)
	}
	return user
}

func TestGenerateRecommendationsSurvivesAIFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db, &stubGenerator{err: errors.New("provider down")})
	user := seedUserAndTrilhas(t, db)

	set, err := svc.GenerateRecommendations(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, set.ContentRecommendations)
	require.Empty(t, set.AIInsights)
	require.Equal(t, len(set.ContentRecommendations)+len(set.HabitRecommendations), set.TotalRecommendations)
}

func TestGenerateRecommendationsTierProgression(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db, &stubGenerator{reply: "keep it up"})
	user := seedUserAndTrilhas(t, db)

	set, err := svc.GenerateRecommendations(context.Background(), user.ID)
	require.NoError(t, err)

	// A beginner sees beginner and intermediate paths, never advanced ones
	// from the profile matcher.
	for _, rec := range set.ContentRecommendations {
		if rec.Source == model.RecSourceProfile {
			require.Contains(t, []string{model.ProfileBeginner, model.ProfileIntermediate}, rec.Dificuldade)
			require.InDelta(t, model.ConfidenceTierMatch, rec.Confidence, 0.001)
		} else {
			require.InDelta(t, model.ConfidencePopularity, rec.Confidence, 0.001)
		}
	}
	require.Equal(t, "keep it up", set.AIInsights)
}

func TestGenerateRecommendationsDeduplicatesPopular(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db, &stubGenerator{})
	user := seedUserAndTrilhas(t, db)

	set, err := svc.GenerateRecommendations(context.Background(), user.ID)
	require.NoError(t, err)

	seen := make(map[uint]bool)
	for _, rec := range set.ContentRecommendations {
		require.False(t, seen[rec.TrilhaID], "trilha %d recommended twice", rec.TrilhaID)
		seen[rec.TrilhaID] = true
	}
}

func TestHabitRecommendationsThresholds(t *testing.T) {
	recs := habitRecommendations(&model.AnalyticsSummary{
		DailyAvgStudyHours: 0.2,
		LearningStreak:     1,
		CompletionRate:     40,
	})
	require.Len(t, recs, 3)
	require.Equal(t, "high", recs[0].Priority)

	// All thresholds satisfied: nothing to nag about.
	recs = habitRecommendations(&model.AnalyticsSummary{
		DailyAvgStudyHours: 1.0,
		LearningStreak:     10,
		CompletionRate:     90,
	})
	require.Empty(t, recs)
}

func TestAnalyzeLearningPatternsDegradesWithoutAI(t *testing.T) {
	db := newTestDB(t)
	svc := newRecommendationService(db, &stubGenerator{err: errors.New("timeout")})
	user := seedUserAndTrilhas(t, db)

	analysis, err := svc.AnalyzeLearningPatterns(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "unknown", analysis.LearningStyle)
	require.NotEmpty(t, analysis.Strengths)
	require.NotEmpty(t, analysis.Improvements)
	require.Empty(t, analysis.AIInsights)
}
