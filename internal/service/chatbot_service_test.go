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

func newChatbotService(db *gorm.DB, gen TextGenerator) *ChatbotService {
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatbotRepository(db, nil)
	trilhaRepo := repository.NewTrilhaRepository(db, nil)
	perfRepo := repository.NewPerformanceRepository(db)
	analytics := NewAnalyticsService(perfRepo, trilhaRepo)
	recommendations := NewRecommendationService(userRepo, trilhaRepo, perfRepo, analytics, gen)
	return NewChatbotService(userRepo, chatRepo, analytics, recommendations, gen)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	svc := &ChatbotService{}

	cases := []struct {
		message string
		intent  string
	}{
		{"Can you recommend a course for me?", model.IntentRecommendation},
		{"Hello, how is my progress?", model.IntentProgress},
		{"what is python", model.IntentHelp},
		{"Hello there!", model.IntentGreeting},
		{"Tell me about trilha options", model.IntentCourseInfo},
		{"I finished all modules", model.IntentCompletion},
		{"xyzzy", model.IntentGeneral},
	}
	for _, tc := range cases {
		intent, _ := svc.Classify(tc.message)
		require.Equal(t, tc.intent, intent, "message %q", tc.message)
	}
}

func TestClassifyExtractsTopicKeywords(t *testing.T) {
	svc := &ChatbotService{}

	_, keywords := svc.Classify("what is Python and when should I learn SQL?")
	require.Equal(t, []string{"python", "sql"}, keywords)
}

func TestConfidenceScoring(t *testing.T) {
	require.InDelta(t, 0.7, confidence(model.IntentGeneral, 0, false), 0.001)
	require.InDelta(t, 0.8, confidence(model.IntentHelp, 0, false), 0.001)
	require.InDelta(t, 0.95, confidence(model.IntentHelp, 1, true), 0.001)
	// Scores are capped at 1.0 regardless of keyword count.
	require.InDelta(t, 1.0, confidence(model.IntentHelp, 10, true), 0.001)
}

func TestSupportedIntentsOrder(t *testing.T) {
	svc := &ChatbotService{}

	require.Equal(t, []string{
		model.IntentRecommendation,
		model.IntentProgress,
		model.IntentHelp,
		model.IntentGreeting,
		model.IntentCourseInfo,
		model.IntentCompletion,
		model.IntentGeneral,
	}, svc.SupportedIntents())
}

func TestProcessMessagePersistsInteraction(t *testing.T) {
	db := newTestDB(t)
	svc := newChatbotService(db, &stubGenerator{reply: "sure thing"})

	user := &model.User{Name: "Hugo", Email: "hugo@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)

	reply, err := svc.ProcessMessage(context.Background(), user.ID, "Hello there!")
	require.NoError(t, err)
	require.Equal(t, model.IntentGreeting, reply.Intent)
	require.Contains(t, reply.Response, "Hello Hugo!")

	var count int64
	require.NoError(t, db.Model(&model.ChatInteraction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProcessMessageUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newChatbotService(db, &stubGenerator{})

	_, err := svc.ProcessMessage(context.Background(), 999, "hello")
	require.Error(t, err)
}

func TestGeneralReplyFallsBackWithoutAI(t *testing.T) {
	db := newTestDB(t)
	svc := newChatbotService(db, &stubGenerator{err: errors.New("provider down")})

	user := &model.User{Name: "Lia", Email: "lia@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, db.Create(user).Error)

	reply, err := svc.ProcessMessage(context.Background(), user.ID, "xyzzy")
	require.NoError(t, err)
	require.Equal(t, model.IntentGeneral, reply.Intent)
	require.Contains(t, reply.Response, "trouble understanding")
}
