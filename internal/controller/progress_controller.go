package controller

import (
	"course_progress/internal/progress"
	"course_progress/internal/service"
	"course_progress/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type CurrentSectionRequest struct {
	SectionID string `json:"sectionId" binding:"required"`
}

type NeighborResponse struct {
	SectionID *string `json:"sectionId"`
}

// @Summary 获取课程进度
// @Description 返回模块/章节树、锁定状态、已完成章节和当前章节，首次访问时从课程后端加载结构
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /courses/{courseId}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.GetProgress(ctx.Request.Context(), user.UserID, ctx.Param("courseId"), util.GetTokenFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 加载课程结构
// @Description 用请求体中的完整模块树整体替换结构
// @Tags 课程进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param modules body []progress.Module true "模块树"
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /courses/{courseId}/progress/structure [post]
func (c *ProgressController) LoadStructure(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var modules []progress.Module
	if err := ctx.ShouldBindJSON(&modules); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view := c.ProgressService.LoadStructure(ctx.Request.Context(), user.UserID, ctx.Param("courseId"), modules)
	util.Success(ctx, view)
}

// @Summary 刷新课程结构
// @Description 从课程后端重新拉取模块树
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /courses/{courseId}/progress/refresh [post]
func (c *ProgressController) Refresh(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.Refresh(ctx.Request.Context(), user.UserID, ctx.Param("courseId"), util.GetTokenFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 设置当前章节
// @Tags 课程进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param body body CurrentSectionRequest true "章节"
// @Success 200 {object} util.Response
// @Router /courses/{courseId}/progress/current [put]
func (c *ProgressController) SetCurrentSection(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CurrentSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	c.ProgressService.SetCurrentSection(ctx.Request.Context(), user.UserID, ctx.Param("courseId"), req.SectionID)
	util.Success(ctx, gin.H{"currentSectionId": req.SectionID})
}

// @Summary 获取当前章节
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.SectionView}
// @Failure 404 {object} util.Response
// @Router /courses/{courseId}/progress/current [get]
func (c *ProgressController) GetCurrentSection(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	section, ok := c.ProgressService.CurrentSection(ctx.Request.Context(), user.UserID, ctx.Param("courseId"))
	if !ok {
		util.NotFound(ctx, "No current section")
		return
	}

	util.Success(ctx, section)
}

// @Summary 完成章节
// @Description 上报课程后端，重新加载结构，并在本地记录完成
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param sectionId path string true "章节ID"
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /courses/{courseId}/sections/{sectionId}/complete [post]
func (c *ProgressController) CompleteSection(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.CompleteSection(
		ctx.Request.Context(),
		user.UserID,
		ctx.Param("courseId"),
		ctx.Param("sectionId"),
		util.GetTokenFromContext(ctx),
	)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 解锁模块
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /courses/{courseId}/modules/{moduleId}/unlock [post]
func (c *ProgressController) UnlockModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view := c.ProgressService.UnlockModule(ctx.Request.Context(), user.UserID, ctx.Param("courseId"), ctx.Param("moduleId"))
	util.Success(ctx, view)
}

// @Summary 下一个章节
// @Description 同一模块内的下一个章节，模块末尾或章节未知时 sectionId 为 null；结构未加载时先从课程后端拉取
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param sectionId path string true "章节ID"
// @Success 200 {object} util.Response{data=NeighborResponse}
// @Router /courses/{courseId}/sections/{sectionId}/next [get]
func (c *ProgressController) NextSection(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok, err := c.ProgressService.NextSection(
		ctx.Request.Context(),
		user.UserID,
		ctx.Param("courseId"),
		ctx.Param("sectionId"),
		util.GetTokenFromContext(ctx),
	)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, neighbor(id, ok))
}

// @Summary 上一个章节
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param sectionId path string true "章节ID"
// @Success 200 {object} util.Response{data=NeighborResponse}
// @Router /courses/{courseId}/sections/{sectionId}/prev [get]
func (c *ProgressController) PrevSection(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok, err := c.ProgressService.PrevSection(
		ctx.Request.Context(),
		user.UserID,
		ctx.Param("courseId"),
		ctx.Param("sectionId"),
		util.GetTokenFromContext(ctx),
	)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, neighbor(id, ok))
}

// @Summary 模块章节列表
// @Tags 课程进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=[]service.SectionView}
// @Router /courses/{courseId}/modules/{moduleId}/sections [get]
func (c *ProgressController) ModuleSections(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sections, err := c.ProgressService.ModuleSections(
		ctx.Request.Context(),
		user.UserID,
		ctx.Param("courseId"),
		ctx.Param("moduleId"),
		util.GetTokenFromContext(ctx),
	)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, sections)
}

func neighbor(id string, ok bool) NeighborResponse {
	if !ok {
		return NeighborResponse{}
	}
	return NeighborResponse{SectionID: &id}
}

func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, "Course not found")
	case errors.Is(err, util.ErrSectionNotFound):
		util.NotFound(ctx, "Section not found")
	case errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx, "Module not found")
	case errors.Is(err, util.ErrBackendUnauthorized):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrBackendUnavailable):
		util.BadGateway(ctx, "Course backend unavailable")
	default:
		util.LogInternalError(ctx, err)
	}
}
