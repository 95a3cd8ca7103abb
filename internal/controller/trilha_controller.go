package controller

import (
	"errors"
	"strconv"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/service"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"

	"github.com/gin-gonic/gin"
)

type TrilhaController struct {
	ContentService   *service.ContentService
	AnalyticsService *service.AnalyticsService
}

func NewTrilhaController(contentService *service.ContentService, analyticsService *service.AnalyticsService) *TrilhaController {
	return &TrilhaController{
		ContentService:   contentService,
		AnalyticsService: analyticsService,
	}
}

func trilhaID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid trilha id")
		return 0, false
	}
	return uint(id), true
}

// swagger:model CreateTrilhaRequest
type CreateTrilhaRequest struct {
	Titulo      string `json:"titulo" binding:"required"`
	Dificuldade string `json:"dificuldade" binding:"required,oneof=beginner intermediate advanced"`
}

// Create godoc
// @Summary Create a trilha
// @Tags trilhas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTrilhaRequest true "trilha payload"
// @Success 201 {object} util.Response{data=model.Trilha}
// @Failure 400 {object} util.Response
// @Router /api/trilhas [post]
func (c *TrilhaController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateTrilhaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trilha, err := c.ContentService.CreateTrilha(claims.UserID, req.Titulo, req.Dificuldade)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, trilha)
}

// List godoc
// @Summary List trilhas
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param difficulty query string false "filter by difficulty"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/trilhas [get]
func (c *TrilhaController) List(ctx *gin.Context) {
	difficulty := ctx.Query("difficulty")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	trilhas, total, err := c.ContentService.ListTrilhas(difficulty, page, limit)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, util.PageResponse{List: trilhas, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get a trilha with its content items
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response{data=model.Trilha}
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id} [get]
func (c *TrilhaController) Get(ctx *gin.Context) {
	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	trilha, err := c.ContentService.GetTrilha(id)
	if err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, trilha)
}

// swagger:model UpdateTrilhaRequest
type UpdateTrilhaRequest struct {
	Titulo      string `json:"titulo"`
	Dificuldade string `json:"dificuldade" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// Update godoc
// @Summary Update a trilha
// @Tags trilhas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Param body body UpdateTrilhaRequest true "fields to update"
// @Success 200 {object} util.Response{data=model.Trilha}
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id} [put]
func (c *TrilhaController) Update(ctx *gin.Context) {
	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	var req UpdateTrilhaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trilha, err := c.ContentService.UpdateTrilha(id, req.Titulo, req.Dificuldade)
	if err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, trilha)
}

// Delete godoc
// @Summary Delete a trilha
// @Description Removes the trilha with its content, performance records and enrollments
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id} [delete]
func (c *TrilhaController) Delete(ctx *gin.Context) {
	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	if err := c.ContentService.DeleteTrilha(id); err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// Search godoc
// @Summary Search trilhas by title
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param q query string true "search term"
// @Param limit query int false "max results" default(20)
// @Success 200 {object} util.Response{data=[]model.Trilha}
// @Router /api/trilhas/search [get]
func (c *TrilhaController) Search(ctx *gin.Context) {
	term := ctx.Query("q")
	if term == "" {
		util.BadRequest(ctx, "missing search term")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	trilhas, err := c.ContentService.SearchTrilhas(term, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trilhas)
}

// Popular godoc
// @Summary List trilhas ranked by enrollment count
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max results" default(5)
// @Success 200 {object} util.Response{data=[]model.PopularTrilha}
// @Router /api/trilhas/popular [get]
func (c *TrilhaController) Popular(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))

	trilhas, err := c.ContentService.PopularTrilhas(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trilhas)
}

// Enroll godoc
// @Summary Enroll the current user in a trilha
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/trilhas/{id}/enroll [post]
func (c *TrilhaController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	if err := c.ContentService.Enroll(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, util.ErrTrilhaNotFound), errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"enrolled": true})
}

// swagger:model AddConteudoRequest
type AddConteudoRequest struct {
	Titulo   string `json:"titulo" binding:"required"`
	Tipo     string `json:"tipo" binding:"required"`
	Material string `json:"material"`
}

// AddConteudo godoc
// @Summary Add a content item to a trilha
// @Tags trilhas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Param body body AddConteudoRequest true "content payload"
// @Success 201 {object} util.Response{data=model.Conteudo}
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id}/conteudos [post]
func (c *TrilhaController) AddConteudo(ctx *gin.Context) {
	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	var req AddConteudoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conteudo, err := c.ContentService.AddConteudo(id, req.Titulo, req.Tipo, req.Material)
	if err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, conteudo)
}

// GetContent godoc
// @Summary Get a trilha's content with the current user's progress
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response{data=service.TrilhaContent}
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id}/content [get]
func (c *TrilhaController) GetContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	content, err := c.ContentService.GetTrilhaContent(id, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, content)
}

// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	ConteudoID  uint     `json:"conteudoId" binding:"required"`
	Progresso   float64  `json:"progresso" binding:"min=0,max=100"`
	Nota        *float64 `json:"nota"`
	TempoEstudo int      `json:"tempoEstudoMinutos"`
}

// UpdateProgress godoc
// @Summary Record a progress update on a content item
// @Description Stored progress never decreases; grades overwrite; study time accumulates
// @Tags trilhas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProgressRequest true "progress payload"
// @Success 200 {object} util.Response{data=model.Performance}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/trilhas/progress [post]
func (c *TrilhaController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	perf, err := c.ContentService.UpdateProgress(claims.UserID, req.ConteudoID, req.Progresso, req.Nota, req.TempoEstudo)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConteudoNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidProgress), errors.Is(err, util.ErrInvalidGrade):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, perf)
}

// GetProgress godoc
// @Summary Get the current user's aggregate progress on a trilha
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response{data=model.TrilhaProgress}
// @Router /api/trilhas/{id}/progress [get]
func (c *TrilhaController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	progress, err := c.AnalyticsService.TrilhaProgress(claims.UserID, id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetStatistics godoc
// @Summary Get aggregate statistics for a trilha across all learners
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response{data=model.TrilhaStatistics}
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id}/statistics [get]
func (c *TrilhaController) GetStatistics(ctx *gin.Context) {
	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	stats, err := c.AnalyticsService.TrilhaStatistics(id)
	if err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, stats)
}

// GetCompletionStats godoc
// @Summary Bucket a trilha's enrolled users by completion state
// @Tags trilhas
// @Produce json
// @Security BearerAuth
// @Param id path int true "trilha id"
// @Success 200 {object} util.Response{data=model.TrilhaCompletionStats}
// @Failure 404 {object} util.Response
// @Router /api/trilhas/{id}/completion-stats [get]
func (c *TrilhaController) GetCompletionStats(ctx *gin.Context) {
	id, ok := trilhaID(ctx)
	if !ok {
		return
	}

	stats, err := c.AnalyticsService.TrilhaCompletionStats(id)
	if err != nil {
		if errors.Is(err, util.ErrTrilhaNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, stats)
}
