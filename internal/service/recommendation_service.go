package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/logger"
	"gorm.io/gorm"
)

const recentHistoryLimit = 20

// RecommendationService composes content and habit recommendations from the
// catalog, the user's analytics and an optional text-generation insight.
type RecommendationService struct {
	UserRepo        *repository.UserRepository
	TrilhaRepo      *repository.TrilhaRepository
	PerformanceRepo *repository.PerformanceRepository
	Analytics       *AnalyticsService
	Generator       TextGenerator
}

func NewRecommendationService(
	userRepo *repository.UserRepository,
	trilhaRepo *repository.TrilhaRepository,
	perfRepo *repository.PerformanceRepository,
	analytics *AnalyticsService,
	generator TextGenerator,
) *RecommendationService {
	return &RecommendationService{
		UserRepo:        userRepo,
		TrilhaRepo:      trilhaRepo,
		PerformanceRepo: perfRepo,
		Analytics:       analytics,
		Generator:       generator,
	}
}

// GenerateRecommendations builds the full recommendation set for a user.
// A text-generation failure degrades the output (empty AIInsights) instead of
// failing the call; the structured lists never depend on the AI service.
func (s *RecommendationService) GenerateRecommendations(ctx context.Context, userID uint) (*model.RecommendationSet, error) {
	user, err := s.UserRepo.FindWithTrilhas(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	summary, err := s.Analytics.ComputeLearningAnalytics(userID, 30)
	if err != nil {
		return nil, err
	}

	history, err := s.PerformanceRepo.FindByUser(userID, recentHistoryLimit)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRecommendations(user)
	if err != nil {
		return nil, err
	}

	set := &model.RecommendationSet{
		UserID:                 userID,
		ContentRecommendations: content,
		HabitRecommendations:   habitRecommendations(summary),
		GeneratedAt:            time.Now(),
	}

	insights, err := s.Generator.Generate(ctx, buildRecommendationPrompt(user, summary, history))
	if err != nil {
		logger.Log.Warn("text generation unavailable, returning structured recommendations only",
			zap.Uint("user_id", userID), zap.Error(err))
	} else {
		set.AIInsights = insights
	}

	set.TotalRecommendations = len(set.ContentRecommendations) + len(set.HabitRecommendations)
	return set, nil
}

// contentRecommendations picks up to 3 unenrolled trilhas in the user's tier
// progression and up to 2 extra popular ones, de-duplicated.
func (s *RecommendationService) contentRecommendations(user *model.User) ([]model.ContentRecommendation, error) {
	enrolled, err := s.TrilhaRepo.EnrolledTrilhaIDs(user.ID)
	if err != nil {
		return nil, err
	}

	tiers, ok := model.NextDifficulties[user.LearningProfile]
	if !ok {
		tiers = model.NextDifficulties[model.ProfileBeginner]
	}

	matched, err := s.TrilhaRepo.FindByDifficulties(tiers, enrolled, 3)
	if err != nil {
		return nil, err
	}

	recs := make([]model.ContentRecommendation, 0, 5)
	seen := make(map[uint]bool)
	for _, t := range matched {
		recs = append(recs, model.ContentRecommendation{
			TrilhaID:    t.ID,
			Titulo:      t.Titulo,
			Dificuldade: t.Dificuldade,
			Reason:      fmt.Sprintf("Matches your %s learning profile", user.LearningProfile),
			Confidence:  model.ConfidenceTierMatch,
			Source:      model.RecSourceProfile,
		})
		seen[t.ID] = true
	}

	popular, err := s.TrilhaRepo.PopularCached(5)
	if err != nil {
		return nil, err
	}
	added := 0
	for _, p := range popular {
		if added >= 2 {
			break
		}
		if seen[p.Trilha.ID] {
			continue
		}
		recs = append(recs, model.ContentRecommendation{
			TrilhaID:    p.Trilha.ID,
			Titulo:      p.Trilha.Titulo,
			Dificuldade: p.Trilha.Dificuldade,
			Reason:      fmt.Sprintf("Popular choice with %d enrollments", p.EnrollmentCount),
			Confidence:  model.ConfidencePopularity,
			Source:      model.RecSourcePopularity,
		})
		seen[p.Trilha.ID] = true
		added++
	}

	return recs, nil
}

// habitRecommendations applies fixed threshold rules to the analytics summary.
func habitRecommendations(summary *model.AnalyticsSummary) []model.HabitRecommendation {
	recs := make([]model.HabitRecommendation, 0, 3)

	if summary.DailyAvgStudyHours < 0.5 {
		recs = append(recs, model.HabitRecommendation{
			Type:         "study_habit",
			Title:        "Increase Daily Study Time",
			Description:  "Try to study for at least 30 minutes daily for better retention",
			CurrentValue: fmt.Sprintf("%.1f hours/day", summary.DailyAvgStudyHours),
			TargetValue:  "0.5+ hours/day",
			Priority:     "high",
		})
	}
	if summary.LearningStreak < 3 {
		recs = append(recs, model.HabitRecommendation{
			Type:         "consistency",
			Title:        "Build Learning Consistency",
			Description:  "Try to learn something every day to build a strong habit",
			CurrentValue: fmt.Sprintf("%d day streak", summary.LearningStreak),
			TargetValue:  "7+ day streak",
			Priority:     "medium",
		})
	}
	if summary.CompletionRate < 70 {
		recs = append(recs, model.HabitRecommendation{
			Type:         "completion",
			Title:        "Focus on Completing Content",
			Description:  "Try to complete more content before starting new topics",
			CurrentValue: fmt.Sprintf("%.0f%% completion rate", summary.CompletionRate),
			TargetValue:  "80%+ completion rate",
			Priority:     "medium",
		})
	}

	return recs
}

// AnalyzeLearningPatterns derives a learning-style report from the user's
// history, enriched with an optional AI commentary.
func (s *RecommendationService) AnalyzeLearningPatterns(ctx context.Context, userID uint) (*model.PatternAnalysis, error) {
	user, err := s.UserRepo.FindWithTrilhas(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	summary, err := s.Analytics.ComputeLearningAnalytics(userID, 30)
	if err != nil {
		return nil, err
	}

	history, err := s.PerformanceRepo.FindByUser(userID, recentHistoryLimit)
	if err != nil {
		return nil, err
	}

	analysis := &model.PatternAnalysis{
		UserID:        userID,
		LearningStyle: learningStyle(history),
		Strengths:     identifyStrengths(summary),
		Improvements:  identifyImprovements(summary),
		AnalysisDate:  time.Now(),
	}

	insights, err := s.Generator.Generate(ctx, buildPatternPrompt(user, summary, history))
	if err != nil {
		logger.Log.Warn("text generation unavailable for pattern analysis",
			zap.Uint("user_id", userID), zap.Error(err))
	} else {
		analysis.AIInsights = insights
	}

	return analysis, nil
}

// learningStyle names the dominant content type in the user's recent history.
func learningStyle(history []model.Performance) string {
	counts := make(map[string]int)
	for _, p := range history {
		if p.Conteudo != nil && p.Conteudo.Tipo != "" {
			counts[p.Conteudo.Tipo]++
		}
	}
	if len(counts) == 0 {
		return "unknown"
	}

	var best string
	var bestCount int
	for tipo, n := range counts {
		if n > bestCount || (n == bestCount && tipo < best) {
			best, bestCount = tipo, n
		}
	}
	return best + "_oriented"
}

func identifyStrengths(summary *model.AnalyticsSummary) []string {
	var strengths []string
	if summary.CompletionRate > 80 {
		strengths = append(strengths, "High completion rate")
	}
	if summary.LearningStreak > 7 {
		strengths = append(strengths, "Consistent learning habit")
	}
	if summary.AvgGradeAllTime > 85 {
		strengths = append(strengths, "Strong academic performance")
	}
	if len(strengths) == 0 {
		strengths = []string{"Engaged learner"}
	}
	return strengths
}

func identifyImprovements(summary *model.AnalyticsSummary) []string {
	var improvements []string
	if summary.DailyAvgStudyHours < 0.5 {
		improvements = append(improvements, "Increase daily study time")
	}
	if summary.CompletionRate < 60 {
		improvements = append(improvements, "Focus on completing started content")
	}
	if summary.LearningStreak < 3 {
		improvements = append(improvements, "Build more consistent learning habits")
	}
	if len(improvements) == 0 {
		improvements = []string{"Continue current learning approach"}
	}
	return improvements
}

func buildRecommendationPrompt(user *model.User, summary *model.AnalyticsSummary, history []model.Performance) string {
	var b strings.Builder
	b.WriteString("You are a learning advisor for an e-learning platform.\n")
	fmt.Fprintf(&b, "Learner: %s, level %s, enrolled in %d learning paths.\n",
		user.Name, user.LearningProfile, len(user.Trilhas))
	fmt.Fprintf(&b, "Analytics (last %d days): completion rate %.1f%%, average progress %.1f%%, "+
		"learning streak %d days, %.1f study hours.\n",
		summary.AnalysisPeriodDays, summary.CompletionRate, summary.AvgProgressRecent,
		summary.LearningStreak, summary.RecentStudyHours)
	writeHistory(&b, history)
	b.WriteString("Suggest concrete next steps and study habits in 3 short paragraphs.")
	return b.String()
}

func buildPatternPrompt(user *model.User, summary *model.AnalyticsSummary, history []model.Performance) string {
	var b strings.Builder
	b.WriteString("Analyze the following learner's patterns and provide insights.\n")
	fmt.Fprintf(&b, "Learner level: %s. Enrolled learning paths: %d.\n", user.LearningProfile, len(user.Trilhas))
	fmt.Fprintf(&b, "Completion rate %.1f%%, streak %d days, daily average %.2f study hours.\n",
		summary.CompletionRate, summary.LearningStreak, summary.DailyAvgStudyHours)
	writeHistory(&b, history)
	b.WriteString("Cover learning habits, preferred content types, completion behavior, " +
		"and areas of strength and improvement.")
	return b.String()
}

func writeHistory(b *strings.Builder, history []model.Performance) {
	if len(history) == 0 {
		return
	}
	b.WriteString("Recent activity:\n")
	limit := len(history)
	if limit > 5 {
		limit = 5
	}
	for _, p := range history[:limit] {
		title, tipo := "unknown", "unknown"
		if p.Conteudo != nil {
			title, tipo = p.Conteudo.Titulo, p.Conteudo.Tipo
		}
		fmt.Fprintf(b, "- %s (%s): progress %.0f%%, %d minutes studied\n", title, tipo, p.Progresso, p.TempoEst)
	}
}
