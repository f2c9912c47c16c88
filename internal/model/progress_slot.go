package model

import (
	"time"
)

// ProgressSlot 本地进度槽位，Value 为 JSON 编码的ID数组
// swagger:model ProgressSlot
type ProgressSlot struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (ProgressSlot) TableName() string {
	return "progress_slots"
}
