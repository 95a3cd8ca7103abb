package controller

import (
	"errors"
	"strconv"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/service"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService      *service.UserService
	AnalyticsService *service.AnalyticsService
	ContentService   *service.ContentService
}

func NewUserController(
	userService *service.UserService,
	analyticsService *service.AnalyticsService,
	contentService *service.ContentService,
) *UserController {
	return &UserController{
		UserService:      userService,
		AnalyticsService: analyticsService,
		ContentService:   contentService,
	}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email" binding:"omitempty,email"`
	LearningProfile string `json:"learningProfile" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "fields to update"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name, req.Email, req.LearningProfile)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, 409, err.Error())
		case errors.Is(err, util.ErrInvalidEmail):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// Search godoc
// @Summary Search users by name or email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "search term"
// @Param limit query int false "max results" default(20)
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users/search [get]
func (c *UserController) Search(ctx *gin.Context) {
	term := ctx.Query("q")
	if term == "" {
		util.BadRequest(ctx, "missing search term")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, err := c.UserService.Search(term, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// Delete godoc
// @Summary Delete the current user's account
// @Description Removes the account with its performance records and enrollments
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/profile [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.UserService.Delete(claims.UserID); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// GetAnalytics godoc
// @Summary Get the current user's learning analytics
// @Description Completion rate, averages, study time and streak over a trailing window
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param days query int false "analysis window in days" default(30)
// @Success 200 {object} util.Response{data=model.AnalyticsSummary}
// @Router /api/users/analytics [get]
func (c *UserController) GetAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	summary, err := c.AnalyticsService.ComputeLearningAnalytics(claims.UserID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// GetLearningPath godoc
// @Summary List the current user's enrolled trilhas with progress
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LearningPathEntry}
// @Router /api/users/learning-path [get]
func (c *UserController) GetLearningPath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.ContentService.UserLearningPath(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
