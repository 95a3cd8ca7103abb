package controller

import (
	"errors"
	"strconv"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/service"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
	AnalyticsService      *service.AnalyticsService
	ContentService        *service.ContentService
}

func NewRecommendationController(
	recommendationService *service.RecommendationService,
	analyticsService *service.AnalyticsService,
	contentService *service.ContentService,
) *RecommendationController {
	return &RecommendationController{
		RecommendationService: recommendationService,
		AnalyticsService:      analyticsService,
		ContentService:        contentService,
	}
}

// Generate godoc
// @Summary Generate personalized recommendations for the current user
// @Description Content and habit recommendations; AI insights are omitted when the text-generation service is unavailable
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.RecommendationSet}
// @Failure 404 {object} util.Response
// @Router /api/recommendations [get]
func (c *RecommendationController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	set, err := c.RecommendationService.GenerateRecommendations(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, set)
}

// Analyze godoc
// @Summary Analyze the current user's learning patterns
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.PatternAnalysis}
// @Failure 404 {object} util.Response
// @Router /api/recommendations/analyze [post]
func (c *RecommendationController) Analyze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	analysis, err := c.RecommendationService.AnalyzeLearningPatterns(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, analysis)
}

// PopularTrilhas godoc
// @Summary List trilhas ranked by enrollment count
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max results" default(5)
// @Success 200 {object} util.Response{data=[]model.PopularTrilha}
// @Router /api/recommendations/popular-trilhas [get]
func (c *RecommendationController) PopularTrilhas(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))

	trilhas, err := c.ContentService.PopularTrilhas(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trilhas)
}

// TopPerformers godoc
// @Summary Rank users by a learning metric
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param metric query string false "progress, grade or study_time" default(progress)
// @Param limit query int false "max results" default(10)
// @Success 200 {object} util.Response{data=[]model.TopPerformer}
// @Failure 400 {object} util.Response
// @Router /api/recommendations/top-performers [get]
func (c *RecommendationController) TopPerformers(ctx *gin.Context) {
	metric := ctx.DefaultQuery("metric", "progress")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	performers, err := c.AnalyticsService.TopPerformers(metric, limit)
	if err != nil {
		if errors.Is(err, util.ErrInvalidMetric) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, performers)
}
