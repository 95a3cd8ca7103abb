package model

import "time"

// Chatbot intents, evaluated in this fixed order so that classification is
// deterministic when several trigger lists match.
const (
	IntentRecommendation = "recommendation"
	IntentProgress       = "progress"
	IntentHelp           = "help"
	IntentGreeting       = "greeting"
	IntentCourseInfo     = "course_info"
	IntentCompletion     = "completion"
	IntentGeneral        = "general"
)

// ChatInteraction is the persisted record of one chatbot exchange, kept for
// telemetry. The rolling conversation window lives in Redis.
// swagger:model ChatInteraction
type ChatInteraction struct {
	BaseModel
	UserID     uint    `gorm:"not null;index" json:"userId"`
	Message    string  `gorm:"type:text" json:"message"`
	Response   string  `gorm:"type:text" json:"response"`
	Intent     string  `gorm:"size:50;index" json:"intent"`
	Confidence float64 `json:"confidence"`
}

func (ChatInteraction) TableName() string {
	return "chat_interactions"
}

// ConversationEntry is one exchange in the Redis-backed rolling history.
type ConversationEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	UserMessage string    `json:"userMessage"`
	BotResponse string    `json:"botResponse"`
	Intent      string    `json:"intent"`
}
