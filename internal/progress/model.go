package progress

import "strings"

// LockStatus 模块锁定状态，由后端决定
type LockStatus string

const (
	Locked    LockStatus = "LOCKED"
	Unlocked  LockStatus = "UNLOCKED"
	Completed LockStatus = "COMPLETED"
)

// ContentType 章节内容类型
type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentImage   ContentType = "image"
	ContentPDF     ContentType = "pdf"
	ContentUnknown ContentType = "unknown"
)

// ParseContentType 未识别的类型一律视为 unknown
func ParseContentType(s string) ContentType {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case ContentVideo:
		return ContentVideo
	case ContentImage:
		return ContentImage
	case ContentPDF:
		return ContentPDF
	default:
		return ContentUnknown
	}
}

// Section 模块内的一个章节
type Section struct {
	ID          string      `json:"id"`
	ModuleID    string      `json:"moduleId"`
	Name        string      `json:"name"`
	Type        ContentType `json:"type"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	IsLast      bool        `json:"isLast"`
}

// Module 后端返回的模块，章节按顺序内嵌
type Module struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   LockStatus `json:"status"`
	Sections []Section  `json:"sections"`
}
