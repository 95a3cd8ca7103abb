package controller

import (
	"errors"
	"strconv"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/service"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatbotController struct {
	ChatbotService *service.ChatbotService
}

func NewChatbotController(chatbotService *service.ChatbotService) *ChatbotController {
	return &ChatbotController{ChatbotService: chatbotService}
}

// swagger:model ChatRequest
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat godoc
// @Summary Send a message to the chatbot
// @Description Classifies the message into an intent and dispatches to the matching handler
// @Tags chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChatRequest true "user message"
// @Success 200 {object} util.Response{data=service.ChatbotReply}
// @Failure 404 {object} util.Response
// @Router /api/chatbot/chat [post]
func (c *ChatbotController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ChatbotService.ProcessMessage(ctx.Request.Context(), claims.UserID, req.Message)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, reply)
}

// History godoc
// @Summary Get the current user's recent chatbot exchanges
// @Tags chatbot
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max exchanges" default(10)
// @Success 200 {object} util.Response{data=object}
// @Router /api/chatbot/history [get]
func (c *ChatbotController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	entries, total, err := c.ChatbotService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"history":           entries,
		"totalInteractions": total,
	})
}

// ClearHistory godoc
// @Summary Clear the current user's conversation window
// @Tags chatbot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/chatbot/history [delete]
func (c *ChatbotController) ClearHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ChatbotService.ClearHistory(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": true})
}

// swagger:model QuickHelpRequest
type QuickHelpRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// QuickHelp godoc
// @Summary Get a short study guide for a topic
// @Tags chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body QuickHelpRequest true "topic"
// @Success 200 {object} util.Response{data=object}
// @Failure 503 {object} util.Response
// @Router /api/chatbot/quick-help [post]
func (c *ChatbotController) QuickHelp(ctx *gin.Context) {
	var req QuickHelpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.ChatbotService.QuickHelp(ctx.Request.Context(), req.Topic)
	if err != nil {
		util.Error(ctx, 503, "Help service is temporarily unavailable")
		return
	}
	util.Success(ctx, gin.H{"topic": req.Topic, "answer": answer})
}

// SupportedIntents godoc
// @Summary List the chatbot's supported intents in evaluation order
// @Tags chatbot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/chatbot/intents [get]
func (c *ChatbotController) SupportedIntents(ctx *gin.Context) {
	util.Success(ctx, c.ChatbotService.SupportedIntents())
}
