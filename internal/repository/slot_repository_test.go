package repository

import (
	"context"
	"course_progress/internal/model"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接独立，只保留一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.ProgressSlot{}))
	return db
}

func newTestRedis(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

type slotRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

func TestSlotRepositories(t *testing.T) {
	repos := map[string]func(t *testing.T) slotRepo{
		"sql": func(t *testing.T) slotRepo {
			return NewSQLSlotRepository(newTestDB(t))
		},
		"memory": func(t *testing.T) slotRepo {
			return NewMemorySlotRepository()
		},
		"redis": func(t *testing.T) slotRepo {
			return NewRedisSlotRepository(newTestRedis(t, miniredis.RunT(t)))
		},
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)

			_, found, err := repo.Get(ctx, "progress:u1:c1:completed_section_ids")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, repo.Set(ctx, "progress:u1:c1:completed_section_ids", `["s1"]`))
			val, found, err := repo.Get(ctx, "progress:u1:c1:completed_section_ids")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `["s1"]`, val)

			// 覆盖写
			require.NoError(t, repo.Set(ctx, "progress:u1:c1:completed_section_ids", `["s1","s2"]`))
			val, _, err = repo.Get(ctx, "progress:u1:c1:completed_section_ids")
			require.NoError(t, err)
			assert.Equal(t, `["s1","s2"]`, val)

			// 键之间互不影响
			_, found, err = repo.Get(ctx, "progress:u2:c1:completed_section_ids")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestRedisSlotRepositoryNoExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := NewRedisSlotRepository(newTestRedis(t, mr))

	require.NoError(t, repo.Set(context.Background(), "progress:u1:c1:unlocked_module_ids", `["m2"]`))

	val, err := mr.Get("progress:u1:c1:unlocked_module_ids")
	require.NoError(t, err)
	assert.Equal(t, `["m2"]`, val)
	assert.Zero(t, mr.TTL("progress:u1:c1:unlocked_module_ids"))
}

func TestRedisSlotRepositoryUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := NewRedisSlotRepository(newTestRedis(t, mr))
	mr.Close()

	// 连接失败要作为错误返回，不能当成槽位不存在
	_, found, err := repo.Get(context.Background(), "progress:u1:c1:completed_section_ids")
	assert.Error(t, err)
	assert.False(t, found)

	assert.Error(t, repo.Set(context.Background(), "progress:u1:c1:completed_section_ids", `[]`))
}
