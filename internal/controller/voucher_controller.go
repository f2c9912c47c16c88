package controller

import (
	"course_progress/internal/service"
	"course_progress/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VoucherController struct {
	VoucherService *service.VoucherService
}

func NewVoucherController(voucherService *service.VoucherService) *VoucherController {
	return &VoucherController{VoucherService: voucherService}
}

// @Summary 上传付款凭证
// @Description 报名课程时上传付款凭证，支持图片和 pdf
// @Tags 报名
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param file formData file true "凭证文件"
// @Success 201 {object} util.Response{data=service.Voucher}
// @Router /courses/{courseId}/vouchers [post]
func (c *VoucherController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	voucher, err := c.VoucherService.Upload(
		ctx.Request.Context(),
		user.UserID,
		ctx.Param("courseId"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidVoucher), errors.Is(err, util.ErrVoucherTooLarge):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, voucher)
}

// @Summary 下载付款凭证
// @Description 只能读取当前学员在该课程下上传的凭证
// @Tags 报名
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param file path string true "凭证文件名"
// @Success 200 {file} file
// @Failure 404 {object} util.Response
// @Router /courses/{courseId}/vouchers/{file} [get]
func (c *VoucherController) Download(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rc, contentType, err := c.VoucherService.Open(ctx.Request.Context(), user.UserID, ctx.Param("courseId"), ctx.Param("file"))
	if err != nil {
		if errors.Is(err, util.ErrVoucherNotFound) {
			util.NotFound(ctx, "Voucher not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	defer rc.Close()

	ctx.Header("Cache-Control", "private, no-store")
	ctx.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
