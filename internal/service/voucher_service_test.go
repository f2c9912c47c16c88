package service

import (
	"context"
	"course_progress/internal/config"
	"course_progress/internal/util"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherUploadLocal(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageProvider(&config.StorageConfig{Type: util.StorageLocal, LocalPath: dir})
	svc := NewVoucherService(storage)

	content := "fake png bytes"
	voucher, err := svc.Upload(context.Background(), "u1", "c1", "receipt.PNG", "image/png", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "c1", voucher.CourseID)
	assert.Equal(t, "u1", voucher.UserID)
	assert.Equal(t, "/api/courses/c1/vouchers/"+voucher.ID+".png", voucher.URL)

	stored := filepath.Join(dir, "vouchers", "c1", "u1", voucher.ID+".png")
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestVoucherUploadRejects(t *testing.T) {
	svc := NewVoucherService(&LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}})

	tests := []struct {
		name        string
		fileName    string
		contentType string
		size        int64
		wantErr     error
	}{
		{"executable", "run.exe", "application/octet-stream", 10, util.ErrInvalidVoucher},
		{"pdf with image type", "receipt.pdf", "image/png", 10, util.ErrInvalidVoucher},
		{"image with pdf type", "receipt.jpg", "application/pdf", 10, util.ErrInvalidVoucher},
		{"too large", "receipt.jpg", "image/jpeg", util.MaxVoucherSize + 1, util.ErrVoucherTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), "u1", "c1", tt.fileName, tt.contentType, tt.size, strings.NewReader("x"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.Upload(context.Background(), "u1", "..", "receipt.jpg", "image/jpeg", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, util.ErrInvalidVoucher)
}

func TestVoucherOpen(t *testing.T) {
	svc := NewVoucherService(&LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}})
	ctx := context.Background()

	voucher, err := svc.Upload(ctx, "u1", "c1", "receipt.pdf", "application/pdf", 3, strings.NewReader("pdf"))
	require.NoError(t, err)
	fileName := voucher.ID + ".pdf"

	rc, contentType, err := svc.Open(ctx, "u1", "c1", fileName)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))
	assert.Equal(t, "application/pdf", contentType)

	tests := []struct {
		name     string
		userID   string
		courseID string
		fileName string
	}{
		{"other learner", "u2", "c1", fileName},
		{"other course", "u1", "c2", fileName},
		{"not a uuid", "u1", "c1", "receipt.pdf"},
		{"traversal", "u1", "..", fileName},
		{"unknown extension", "u1", "c1", voucher.ID + ".exe"},
		{"missing object", "u1", "c1", "6f1c2d3e-0000-4000-8000-000000000000.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Open(ctx, tt.userID, tt.courseID, tt.fileName)
			assert.ErrorIs(t, err, util.ErrVoucherNotFound)
		})
	}
}

func TestVoucherUploadPDF(t *testing.T) {
	svc := NewVoucherService(&LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}})

	voucher, err := svc.Upload(context.Background(), "u1", "c1", "receipt.pdf", "application/pdf", 3, strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", voucher.ContentType)
}
