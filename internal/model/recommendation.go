package model

import "time"

// Recommendation sources and confidences. Tier-matched trilhas carry a fixed
// higher confidence than popularity-matched ones.
const (
	RecSourceProfile    = "profile_match"
	RecSourcePopularity = "popularity_based"

	ConfidenceTierMatch  = 0.85
	ConfidencePopularity = 0.75
)

// ContentRecommendation points the user at a trilha.
// swagger:model ContentRecommendation
type ContentRecommendation struct {
	TrilhaID    uint    `json:"trilhaId"`
	Titulo      string  `json:"titulo"`
	Dificuldade string  `json:"dificuldade"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
}

// HabitRecommendation is a threshold-rule suggestion about study habits.
// swagger:model HabitRecommendation
type HabitRecommendation struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CurrentValue string `json:"currentValue"`
	TargetValue  string `json:"targetValue"`
	Priority     string `json:"priority"`
}

// RecommendationSet is the full composer output. AIInsights is opaque prose
// from the text-generation service and may be empty when that call failed;
// the structured lists are always populated independently of it.
// swagger:model RecommendationSet
type RecommendationSet struct {
	UserID                 uint                    `json:"userId"`
	ContentRecommendations []ContentRecommendation `json:"content_recommendations"`
	HabitRecommendations   []HabitRecommendation   `json:"habit_recommendations"`
	AIInsights             string                  `json:"ai_insights,omitempty"`
	TotalRecommendations   int                     `json:"totalRecommendations"`
	GeneratedAt            time.Time               `json:"generatedAt"`
}

// PatternAnalysis is the AI-assisted learning pattern report.
// swagger:model PatternAnalysis
type PatternAnalysis struct {
	UserID        uint      `json:"userId"`
	LearningStyle string    `json:"learningStyle"`
	Strengths     []string  `json:"strengths"`
	Improvements  []string  `json:"areasForImprovement"`
	AIInsights    string    `json:"ai_insights,omitempty"`
	AnalysisDate  time.Time `json:"analysisDate"`
}
