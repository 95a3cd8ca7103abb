package controller

import (
	"fmt"
	"path/filepath"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/service"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	StorageService *service.StorageService
}

func NewContentController(storageService *service.StorageService) *ContentController {
	return &ContentController{StorageService: storageService}
}

// Upload godoc
// @Summary Upload a material file
// @Description Stores the file on the configured backend; video uploads are probed for duration and resolution
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "material file"
// @Success 200 {object} util.Response{data=service.MaterialUpload}
// @Failure 400 {object} util.Response
// @Router /api/content/upload [post]
func (c *ContentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("materials/%d/%s%s",
		claims.UserID, model.GenerateUUID(), filepath.Ext(fileHeader.Filename))

	upload, err := c.StorageService.UploadMaterial(
		ctx.Request.Context(),
		filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, upload)
}
