package backend

import (
	"bytes"
	"context"
	"course_progress/internal/progress"
	"course_progress/internal/util"
	"course_progress/pkg/logger"
	"course_progress/pkg/monitoring"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const defaultMaxResponseBytes = 8 << 20

// Client 课程后端 REST 客户端。不做重试，超时由 http.Client 控制。
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// MaxResponseBytes 响应体上限，超出时报错而不是截断
	MaxResponseBytes int64
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:          strings.TrimRight(baseURL, "/"),
		HTTPClient:       &http.Client{Timeout: timeout},
		MaxResponseBytes: defaultMaxResponseBytes,
	}
}

type sectionPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type modulePayload struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Status   string           `json:"status"`
	Sections []sectionPayload `json:"sections"`
}

// FetchStructure 获取课程的完整模块树
func (c *Client) FetchStructure(ctx context.Context, courseID, token string) ([]progress.Module, error) {
	path := "/courses/" + url.PathEscape(courseID) + "/modules"
	body, err := c.do(ctx, "fetch_structure", http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	payload, err := decodeModules(body)
	if err != nil {
		return nil, fmt.Errorf("decode structure for course %s: %w", courseID, err)
	}
	return toModules(payload), nil
}

// ReportSectionAttended 通知后端学员已完成章节
func (c *Client) ReportSectionAttended(ctx context.Context, sectionID, token string) error {
	path := "/sections/" + url.PathEscape(sectionID) + "/attend"
	_, err := c.do(ctx, "report_section", http.MethodPost, path, token, []byte("{}"))
	return err
}

func (c *Client) do(ctx context.Context, op, method, path, token string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		monitoring.BackendRequests.WithLabelValues(op, "error").Inc()
		logger.Log.Warn("Course backend request failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %v", op, util.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	monitoring.BackendRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	limit := c.MaxResponseBytes
	if limit <= 0 {
		limit = defaultMaxResponseBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if int64(len(body)) > limit {
		logger.Log.Warn("Course backend response too large", zap.String("op", op), zap.Int64("limit", limit))
		return nil, fmt.Errorf("%s: response exceeds %d bytes: %w", op, limit, util.ErrBackendUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", op, util.ErrBackendUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		if op == "report_section" {
			return nil, fmt.Errorf("%s: %w", op, util.ErrSectionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, util.ErrCourseNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		logger.Log.Warn("Course backend returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 512)),
		)
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, util.ErrBackendUnavailable)
	}

	return body, nil
}

// decodeModules 同时接受裸数组和 {"data": [...]} 包装
func decodeModules(body []byte) ([]modulePayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Data []modulePayload `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Data, nil
	}

	var modules []modulePayload
	if err := json.Unmarshal(trimmed, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func toModules(payload []modulePayload) []progress.Module {
	modules := make([]progress.Module, len(payload))
	for i, m := range payload {
		sections := make([]progress.Section, len(m.Sections))
		for j, s := range m.Sections {
			sections[j] = progress.Section{
				ID:          s.ID,
				Name:        s.Name,
				Type:        progress.ParseContentType(s.Type),
				URL:         s.URL,
				Description: s.Description,
			}
		}
		modules[i] = progress.Module{
			ID:       m.ID,
			Name:     m.Name,
			Status:   progress.LockStatus(m.Status),
			Sections: sections,
		}
	}
	return modules
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
