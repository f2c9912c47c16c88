package repository

import (
	"context"
	"course_progress/internal/model"
	"errors"
	"sync"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSlotRepository 把进度槽位存在 progress_slots 表
type SQLSlotRepository struct {
	DB *gorm.DB
}

func NewSQLSlotRepository(db *gorm.DB) *SQLSlotRepository {
	return &SQLSlotRepository{DB: db}
}

func (r *SQLSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var slot model.ProgressSlot
	err := r.DB.WithContext(ctx).Where(&model.ProgressSlot{Key: key}).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return slot.Value, true, nil
}

func (r *SQLSlotRepository) Set(ctx context.Context, key, value string) error {
	slot := model.ProgressSlot{Key: key, Value: value}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
}

// RedisSlotRepository 每个槽位一个 redis 字符串键，不设过期
type RedisSlotRepository struct {
	Redis *redis.Client
}

func NewRedisSlotRepository(rdb *redis.Client) *RedisSlotRepository {
	return &RedisSlotRepository{Redis: rdb}
}

func (r *RedisSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisSlotRepository) Set(ctx context.Context, key, value string) error {
	return r.Redis.Set(ctx, key, value, 0).Err()
}

// MemorySlotRepository 进程内实现，用于开发和测试
type MemorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemorySlotRepository() *MemorySlotRepository {
	return &MemorySlotRepository{slots: make(map[string]string)}
}

func (r *MemorySlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.slots[key]
	return val, ok, nil
}

func (r *MemorySlotRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key] = value
	return nil
}
