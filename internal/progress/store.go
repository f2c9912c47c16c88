package progress

import (
	"context"
	"course_progress/pkg/logger"
	"course_progress/pkg/monitoring"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	CompletedSectionsSlot = "completed_section_ids"
	UnlockedModulesSlot   = "unlocked_module_ids"
)

// SlotStore 本地键值存储，两个槽位各存一个 JSON 数组
type SlotStore interface {
	// Get 槽位不存在时 found 为 false 且 err 为 nil
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store 持有当前 State，并负责两个集合的本地持久化。
// 持久化是尽力而为的：写入在后台进行，失败只记日志。
type Store struct {
	mu    sync.RWMutex
	state State

	slots     SlotStore
	keyPrefix string
	timeout   time.Duration

	restoreOnce sync.Once

	persistMu sync.Mutex
	pending   sync.WaitGroup
	inflight  atomic.Int64
}

// NewStore keyPrefix 用于区分不同学员/课程的槽位，slots 为 nil 时不做持久化
func NewStore(slots SlotStore, keyPrefix string) *Store {
	return &Store{
		state:     NewState(),
		slots:     slots,
		keyPrefix: keyPrefix,
		timeout:   5 * time.Second,
	}
}

// State 返回当前状态快照
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// RestoreProgress 从本地槽位恢复已完成章节和已解锁模块，损坏或缺失时视为空集合
func (s *Store) RestoreProgress(ctx context.Context) {
	completed := s.readSlot(ctx, CompletedSectionsSlot)
	unlocked := s.readSlot(ctx, UnlockedModulesSlot)

	s.mu.Lock()
	s.state = s.state.WithRestored(completed, unlocked)
	s.mu.Unlock()
}

// EnsureRestored 只恢复一次；并发调用者都会阻塞到恢复完成，
// 避免在空状态上写入而覆盖已保存的集合
func (s *Store) EnsureRestored(ctx context.Context) {
	s.restoreOnce.Do(func() {
		s.RestoreProgress(ctx)
	})
}

// LoadStructure 整体替换结构映射，以最后一次加载为准
func (s *Store) LoadStructure(modules []Module) {
	s.mu.Lock()
	s.state = s.state.WithStructure(modules)
	s.mu.Unlock()
	monitoring.StructureLoads.Inc()
}

func (s *Store) SetCurrentSection(sectionID string) {
	s.mu.Lock()
	s.state = s.state.WithCurrentSection(sectionID)
	s.mu.Unlock()
}

// CompleteSection 幂等：已存在时既不改状态也不写存储
func (s *Store) CompleteSection(sectionID string) {
	s.mu.Lock()
	next, changed := s.state.WithCompletedSection(sectionID)
	s.state = next
	s.mu.Unlock()

	if changed {
		monitoring.SectionCompletions.Inc()
		s.persist(CompletedSectionsSlot)
	}
}

// UnlockModule 幂等，与 CompleteSection 对称
func (s *Store) UnlockModule(moduleID string) {
	s.mu.Lock()
	next, changed := s.state.WithUnlockedModule(moduleID)
	s.state = next
	s.mu.Unlock()

	if changed {
		monitoring.ModuleUnlocks.Inc()
		s.persist(UnlockedModulesSlot)
	}
}

// Wait 阻塞直到所有后台写入完成
func (s *Store) Wait() {
	s.pending.Wait()
}

// Pending 是否还有未完成的后台写入
func (s *Store) Pending() bool {
	return s.inflight.Load() > 0
}

func (s *Store) key(slot string) string {
	return s.keyPrefix + slot
}

func (s *Store) readSlot(ctx context.Context, slot string) []string {
	if s.slots == nil {
		return nil
	}

	raw, found, err := s.slots.Get(ctx, s.key(slot))
	if err != nil {
		logger.Log.Warn("Failed to read progress slot", zap.String("key", s.key(slot)), zap.Error(err))
		return nil
	}
	if !found || raw == "" {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Log.Warn("Corrupt progress slot, defaulting to empty", zap.String("key", s.key(slot)), zap.Error(err))
		return nil
	}
	return ids
}

// persist 在后台写入槽位。每次写入都读取最新集合，
// 因此即使写入乱序完成，最后一次写入也包含此前的所有ID。
func (s *Store) persist(slot string) {
	if s.slots == nil {
		return
	}

	s.pending.Add(1)
	s.inflight.Add(1)
	go func() {
		defer s.pending.Done()
		defer s.inflight.Add(-1)

		s.persistMu.Lock()
		defer s.persistMu.Unlock()

		state := s.State()
		ids := state.completedSections
		if slot == UnlockedModulesSlot {
			ids = state.unlockedModules
		}

		data, err := json.Marshal(cloneStrings(ids))
		if err != nil {
			logger.Log.Error("Failed to encode progress slot", zap.String("slot", slot), zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.slots.Set(ctx, s.key(slot), string(data)); err != nil {
			monitoring.SlotWriteFailures.Inc()
			logger.Log.Error("Failed to persist progress slot", zap.String("key", s.key(slot)), zap.Error(err))
		}
	}()
}
