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
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/monitoring"
	"gorm.io/gorm"
)

// intentRule binds one intent to its trigger substrings. Rules are evaluated
// in slice order and the first match wins, so classification is deterministic
// even when several trigger lists match the same message.
type intentRule struct {
	Intent   string
	Triggers []string
}

var intentRules = []intentRule{
	{model.IntentRecommendation, []string{"recommend", "suggest", "what should", "help me find"}},
	{model.IntentProgress, []string{"progress", "how am i doing", "my performance", "stats"}},
	{model.IntentHelp, []string{"help", "how to", "explain", "what is"}},
	{model.IntentGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon"}},
	{model.IntentCourseInfo, []string{"course", "trilha", "content", "material"}},
	{model.IntentCompletion, []string{"complete", "finish", "done", "completed"}},
}

// topicVocabulary is the fixed keyword list used for confidence scoring.
var topicVocabulary = []string{
	"python", "javascript", "java", "programming", "web development",
	"data science", "machine learning", "ai", "database", "sql",
	"react", "angular", "vue", "nodejs", "backend", "frontend",
}

// ChatbotReply is the full chatbot output for one message.
// swagger:model ChatbotReply
type ChatbotReply struct {
	Response   string    `json:"response"`
	Intent     string    `json:"intent"`
	Keywords   []string  `json:"keywords"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatbotService routes free-text messages to deterministic handlers or the
// text-generation service based on keyword intent matching.
type ChatbotService struct {
	UserRepo        *repository.UserRepository
	ChatRepo        *repository.ChatbotRepository
	Analytics       *AnalyticsService
	Recommendations *RecommendationService
	Generator       TextGenerator
}

func NewChatbotService(
	userRepo *repository.UserRepository,
	chatRepo *repository.ChatbotRepository,
	analytics *AnalyticsService,
	recommendations *RecommendationService,
	generator TextGenerator,
) *ChatbotService {
	return &ChatbotService{
		UserRepo:        userRepo,
		ChatRepo:        chatRepo,
		Analytics:       analytics,
		Recommendations: recommendations,
		Generator:       generator,
	}
}

// Classify returns the first intent whose trigger list matches the message,
// plus the topic keywords found in it. No match means IntentGeneral.
func (s *ChatbotService) Classify(message string) (string, []string) {
	lower := strings.ToLower(message)

	intent := model.IntentGeneral
	for _, rule := range intentRules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lower, trigger) {
				intent = rule.Intent
				break
			}
		}
		if intent != model.IntentGeneral {
			break
		}
	}

	var keywords []string
	for _, topic := range topicVocabulary {
		if strings.Contains(lower, topic) {
			keywords = append(keywords, topic)
		}
	}
	return intent, keywords
}

// confidence scores the classification for telemetry. It never drives
// control flow.
func confidence(intent string, keywordCount int, hasProfile bool) float64 {
	score := 0.7
	if intent != model.IntentGeneral {
		score += 0.1
	}
	score += float64(keywordCount) * 0.05
	if hasProfile {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ProcessMessage classifies the message, dispatches to the matching handler,
// stores the exchange and returns the combined reply.
func (s *ChatbotService) ProcessMessage(ctx context.Context, userID uint, message string) (*ChatbotReply, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	intent, keywords := s.Classify(message)
	score := confidence(intent, len(keywords), user.LearningProfile != "")
	monitoring.ChatbotIntentCounter.WithLabelValues(intent).Inc()

	detail := s.intentResponse(ctx, user, intent, keywords, message)
	full := responseTemplate(intent, user.Name) + "\n\n" + detail

	reply := &ChatbotReply{
		Response:   full,
		Intent:     intent,
		Keywords:   keywords,
		Confidence: score,
		Timestamp:  time.Now(),
	}

	if err := s.ChatRepo.PushHistory(userID, model.ConversationEntry{
		Timestamp:   reply.Timestamp,
		UserMessage: message,
		BotResponse: full,
		Intent:      intent,
	}); err != nil {
		logger.Log.Warn("failed to push conversation history", zap.Uint("user_id", userID), zap.Error(err))
	}
	if err := s.ChatRepo.SaveInteraction(&model.ChatInteraction{
		UserID:     userID,
		Message:    message,
		Response:   full,
		Intent:     intent,
		Confidence: score,
	}); err != nil {
		logger.Log.Warn("failed to persist chat interaction", zap.Uint("user_id", userID), zap.Error(err))
	}

	return reply, nil
}

func responseTemplate(intent, userName string) string {
	switch intent {
	case model.IntentRecommendation:
		return fmt.Sprintf("Hi %s! I'd be happy to recommend some learning content for you.", userName)
	case model.IntentProgress:
		return fmt.Sprintf("Let me check your learning progress, %s.", userName)
	case model.IntentHelp:
		return fmt.Sprintf("I'm here to help you, %s! Let me explain that for you.", userName)
	case model.IntentGreeting:
		return fmt.Sprintf("Hello %s! How can I assist you with your learning today?", userName)
	case model.IntentCourseInfo:
		return fmt.Sprintf("I can provide information about courses and learning materials, %s.", userName)
	case model.IntentCompletion:
		return fmt.Sprintf("Great job on your progress, %s! Let me help you with next steps.", userName)
	default:
		return fmt.Sprintf("I understand, %s. Let me help you with that.", userName)
	}
}

func (s *ChatbotService) intentResponse(ctx context.Context, user *model.User, intent string, keywords []string, message string) string {
	switch intent {
	case model.IntentRecommendation:
		return s.recommendationReply(ctx, user.ID)
	case model.IntentProgress:
		return s.progressReply(user.ID)
	case model.IntentHelp:
		return s.helpReply(ctx, message)
	case model.IntentGreeting:
		return greetingReply()
	case model.IntentCourseInfo:
		return courseInfoReply(keywords)
	case model.IntentCompletion:
		return completionReply()
	default:
		return s.generalReply(ctx, user.ID, message)
	}
}

func (s *ChatbotService) recommendationReply(ctx context.Context, userID uint) string {
	set, err := s.Recommendations.GenerateRecommendations(ctx, userID)
	if err != nil {
		logger.Log.Warn("chatbot recommendation handler failed", zap.Uint("user_id", userID), zap.Error(err))
		return "I'm having trouble generating recommendations right now. Please try again later."
	}

	var b strings.Builder
	b.WriteString("Here are my personalized recommendations for you:\n\n")
	limit := len(set.ContentRecommendations)
	if limit > 3 {
		limit = 3
	}
	for i, rec := range set.ContentRecommendations[:limit] {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, rec.Titulo, rec.Dificuldade, rec.Reason)
	}
	if limit == 0 {
		b.WriteString("You're enrolled in everything that matches your level. Keep going!\n")
	}
	if set.AIInsights != "" {
		insight := set.AIInsights
		if len(insight) > 200 {
			insight = insight[:200] + "..."
		}
		fmt.Fprintf(&b, "\nAI insights:\n%s", insight)
	}
	return b.String()
}

func (s *ChatbotService) progressReply(userID uint) string {
	summary, err := s.Analytics.ComputeLearningAnalytics(userID, 30)
	if err != nil {
		logger.Log.Warn("chatbot progress handler failed", zap.Uint("user_id", userID), zap.Error(err))
		return "I can help you track your learning progress! Complete some learning activities and I'll show you detailed statistics."
	}
	if !summary.HasData {
		return "I don't have enough data about your progress yet. Start learning some content and I'll be able to track your progress!"
	}

	var b strings.Builder
	b.WriteString("Your learning progress:\n\n")
	fmt.Fprintf(&b, "Completion rate: %.1f%%\n", summary.CompletionRate)
	fmt.Fprintf(&b, "Total activities: %d\n", summary.TotalActivities)
	fmt.Fprintf(&b, "Average grade: %.1f/100\n", summary.AvgGradeAllTime)
	fmt.Fprintf(&b, "Total study time: %.1f hours\n", summary.TotalStudyHours)
	fmt.Fprintf(&b, "Learning streak: %d days\n\n", summary.LearningStreak)

	switch {
	case summary.CompletionRate > 80:
		b.WriteString("Excellent work! You're doing great with completing your learning content!")
	case summary.CompletionRate > 60:
		b.WriteString("Good progress! Try to complete more content to boost your learning effectiveness.")
	default:
		b.WriteString("Keep going! Focus on completing the content you start for better learning outcomes.")
	}
	return b.String()
}

func (s *ChatbotService) helpReply(ctx context.Context, message string) string {
	prompt := "You are a helpful tutor on an e-learning platform. Answer the student's question clearly and concisely.\n\nQuestion: " + message
	answer, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		logger.Log.Warn("chatbot help handler degraded", zap.Error(err))
		return "I can explain learning topics, help you find courses, and track your progress. What would you like to know?"
	}
	return answer + "\n\nIs there anything specific you'd like me to elaborate on?"
}

func greetingReply() string {
	return "Welcome back! Ready to continue your learning journey?\n\n" +
		"I can help you with:\n" +
		"- Finding new courses\n" +
		"- Tracking your progress\n" +
		"- Answering questions\n" +
		"- Providing recommendations"
}

func courseInfoReply(keywords []string) string {
	var b strings.Builder
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "I found information related to: %s\n\n", strings.Join(keywords, ", "))
	}
	b.WriteString("I can help you find courses in various topics including:\n")
	b.WriteString("- Programming (Python, JavaScript, Java)\n")
	b.WriteString("- Web Development (React, Angular, Node.js)\n")
	b.WriteString("- Data Science & AI\n")
	b.WriteString("- Database Management\n\n")
	b.WriteString("What specific topic interests you?")
	return b.String()
}

func completionReply() string {
	return "Completing learning content is a great achievement! Here's what you can do next:\n\n" +
		"- Review what you've learned\n" +
		"- Apply your knowledge in practice\n" +
		"- Move on to more advanced topics\n\n" +
		"Would you like me to recommend your next learning step?"
}

func (s *ChatbotService) generalReply(ctx context.Context, userID uint, message string) string {
	var b strings.Builder
	b.WriteString("You are a friendly assistant on an e-learning platform.\n")

	history, err := s.ChatRepo.History(userID, 3)
	if err != nil {
		logger.Log.Warn("failed to load conversation history", zap.Uint("user_id", userID), zap.Error(err))
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation, most recent first:\n")
		for _, entry := range history {
			fmt.Fprintf(&b, "Student: %s\nAssistant: %s\n", entry.UserMessage, entry.BotResponse)
		}
	}
	fmt.Fprintf(&b, "Student: %s\nAssistant:", message)

	answer, err := s.Generator.Generate(ctx, b.String())
	if err != nil {
		logger.Log.Warn("chatbot general handler degraded", zap.Error(err))
		return "I'm sorry, I'm having trouble understanding right now. Could you please try again?"
	}
	return answer
}

// History returns the user's rolling conversation window plus the total
// persisted interaction count.
func (s *ChatbotService) History(userID uint, limit int) ([]model.ConversationEntry, int64, error) {
	entries, err := s.ChatRepo.History(userID, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ChatRepo.CountInteractions(userID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *ChatbotService) ClearHistory(userID uint) error {
	return s.ChatRepo.ClearHistory(userID)
}

// QuickHelp answers a single topic question without touching the
// conversation history.
func (s *ChatbotService) QuickHelp(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf("Give a short, practical study guide for the topic %q on an e-learning platform. "+
		"Cover what it is, why it matters, and how to start learning it.", topic)
	return s.Generator.Generate(ctx, prompt)
}

// SupportedIntents lists the intents in evaluation order, general last.
func (s *ChatbotService) SupportedIntents() []string {
	intents := make([]string, 0, len(intentRules)+1)
	for _, rule := range intentRules {
		intents = append(intents, rule.Intent)
	}
	return append(intents, model.IntentGeneral)
}
