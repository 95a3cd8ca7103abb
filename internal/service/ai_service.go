package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/config"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/monitoring"

	"github.com/sony/gobreaker/v2"
)

// TextGenerator is the external text-generation dependency. Callers must
// treat any error as "no AI insight available" and degrade gracefully.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService talks to an OpenAI-compatible chat-completions endpoint. Calls
// carry a per-request timeout, one internal retry, and a circuit breaker so a
// flapping provider cannot stall every request.
type AIService struct {
	config  config.AIConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewAIService(cfg config.AIConfig) *AIService {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "text-generation",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &AIService{
		config:  cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		breaker: breaker,
	}
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []aiChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt and returns the model's reply. One retry on
// transport errors.
func (s *AIService) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := s.breaker.Execute(func() (string, error) {
		reply, err := s.complete(ctx, prompt)
		if err != nil {
			reply, err = s.complete(ctx, prompt)
		}
		return reply, err
	})
	if err != nil {
		monitoring.AIRequestCounter.WithLabelValues("error").Inc()
		return "", err
	}
	monitoring.AIRequestCounter.WithLabelValues("success").Inc()
	return result, nil
}

func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	messages := []aiChatMessage{
		{
			Role:    "system",
			Content: "You are a learning assistant for an e-learning platform. Answer concisely and stay on the topic of the student's learning journey.",
		},
		{
			Role:    "user",
			Content: prompt,
		},
	}

	reqBody := chatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
