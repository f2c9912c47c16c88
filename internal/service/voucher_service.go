package service

import (
	"context"
	"course_progress/internal/util"
	"course_progress/pkg/logger"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Voucher 已上传的付款凭证
type Voucher struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	UserID      string    `json:"userId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// VoucherService 保存报名时上传的付款凭证（图片或 pdf）
type VoucherService struct {
	Storage StorageProvider
}

func NewVoucherService(storage StorageProvider) *VoucherService {
	return &VoucherService{Storage: storage}
}

// Upload contentType 为客户端声明的 MIME 类型，需与扩展名同时合法
func (s *VoucherService) Upload(ctx context.Context, userID, courseID, fileName, contentType string, size int64, reader io.Reader) (*Voucher, error) {
	if size > util.MaxVoucherSize {
		return nil, util.ErrVoucherTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedVoucher(ext, contentType) || !safeSegment(userID) || !safeSegment(courseID) {
		return nil, util.ErrInvalidVoucher
	}

	id := uuid.New().String()
	objectName := voucherObject(userID, courseID, id+ext)

	if err := s.Storage.Upload(ctx, objectName, reader, size, contentType); err != nil {
		logger.Log.Error("Failed to store voucher",
			zap.String("course_id", courseID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("store voucher: %w", err)
	}

	return &Voucher{
		ID:          id,
		CourseID:    courseID,
		UserID:      userID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		URL:         VoucherURL(courseID, id+ext),
		UploadedAt:  time.Now(),
	}, nil
}

// Open 读取学员本人上传的凭证。fileName 形如 "{uuid}{ext}"，
// 路径只由当前学员和课程拼出，因此无法读取他人的凭证
func (s *VoucherService) Open(ctx context.Context, userID, courseID, fileName string) (io.ReadCloser, string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if _, err := uuid.Parse(strings.TrimSuffix(fileName, ext)); err != nil || !allowedExtension(ext) {
		return nil, "", util.ErrVoucherNotFound
	}
	if !safeSegment(userID) || !safeSegment(courseID) {
		return nil, "", util.ErrVoucherNotFound
	}

	rc, err := s.Storage.Open(ctx, voucherObject(userID, courseID, fileName))
	if err != nil {
		return nil, "", err
	}
	return rc, voucherContentType(ext), nil
}

// VoucherURL 凭证的鉴权下载地址
func VoucherURL(courseID, fileName string) string {
	return "/api/courses/" + url.PathEscape(courseID) + "/vouchers/" + fileName
}

func voucherObject(userID, courseID, fileName string) string {
	return path.Join(util.VoucherObjectDir, courseID, userID, fileName)
}

// safeSegment 路径片段不能为空、不能是 "." 或 ".."，也不能含分隔符
func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func voucherContentType(ext string) string {
	if ext == ".pdf" {
		return util.MimePDF
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func allowedExtension(ext string) bool {
	for _, e := range util.AllowedVoucherExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func allowedVoucher(ext, contentType string) bool {
	if !allowedExtension(ext) {
		return false
	}
	if ext == ".pdf" {
		return contentType == util.MimePDF
	}
	return strings.HasPrefix(contentType, util.MimeImage)
}
