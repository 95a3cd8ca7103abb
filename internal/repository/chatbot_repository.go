package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	historyMaxEntries = 10
	historyTTL        = 24 * time.Hour
)

// ChatbotRepository persists chatbot interactions in MySQL and keeps the
// rolling per-user conversation window in Redis (last 10 exchanges, 24h TTL).
type ChatbotRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewChatbotRepository(db *gorm.DB, rdb *redis.Client) *ChatbotRepository {
	return &ChatbotRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func historyKey(userID uint) string {
	return fmt.Sprintf("chatbot:history:%d", userID)
}

func (r *ChatbotRepository) SaveInteraction(interaction *model.ChatInteraction) error {
	return r.DB.Create(interaction).Error
}

func (r *ChatbotRepository) CountInteractions(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChatInteraction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// PushHistory appends an exchange to the user's rolling window, trimming to
// the cap and refreshing the TTL.
func (r *ChatbotRepository) PushHistory(userID uint, entry model.ConversationEntry) error {
	if r.Redis == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := historyKey(userID)
	pipe := r.Redis.Pipeline()
	pipe.LPush(r.ctx, key, data)
	pipe.LTrim(r.ctx, key, 0, historyMaxEntries-1)
	pipe.Expire(r.ctx, key, historyTTL)
	_, err = pipe.Exec(r.ctx)
	return err
}

// History returns up to limit exchanges, most recent first.
func (r *ChatbotRepository) History(userID uint, limit int) ([]model.ConversationEntry, error) {
	if r.Redis == nil {
		return nil, nil
	}
	if limit <= 0 || limit > historyMaxEntries {
		limit = historyMaxEntries
	}

	raw, err := r.Redis.LRange(r.ctx, historyKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.ConversationEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.ConversationEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *ChatbotRepository) ClearHistory(userID uint) error {
	if r.Redis == nil {
		return nil
	}
	return r.Redis.Del(r.ctx, historyKey(userID)).Err()
}
