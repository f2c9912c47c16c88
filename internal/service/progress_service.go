package service

import (
	"context"
	"course_progress/internal/progress"
	"course_progress/internal/util"
	"course_progress/pkg/logger"
	"course_progress/pkg/tracing"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CourseBackend 课程后端协作方
type CourseBackend interface {
	FetchStructure(ctx context.Context, courseID, token string) ([]progress.Module, error)
	ReportSectionAttended(ctx context.Context, sectionID, token string) error
}

// ProgressService 为每个 (学员, 课程) 维护一个独立的进度 Store
type ProgressService struct {
	Backend CourseBackend
	Slots   progress.SlotStore

	mu     sync.Mutex
	stores map[string]*storeEntry
	now    func() time.Time
}

type storeEntry struct {
	store    *progress.Store
	lastUsed time.Time
}

func NewProgressService(backend CourseBackend, slots progress.SlotStore) *ProgressService {
	return &ProgressService{
		Backend: backend,
		Slots:   slots,
		stores:  make(map[string]*storeEntry),
		now:     time.Now,
	}
}

type SectionView struct {
	progress.Section
	Completed bool `json:"completed"`
}

type ModuleView struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Status   progress.LockStatus `json:"status"`
	Unlocked bool                `json:"unlocked"`
	Progress progress.Progress   `json:"progress"`
	Sections []SectionView       `json:"sections"`
}

type ProgressView struct {
	CourseID          string       `json:"courseId"`
	Modules           []ModuleView `json:"modules"`
	CurrentSectionID  *string      `json:"currentSectionId"`
	CompletedSections []string     `json:"completedSections"`
	UnlockedModules   []string     `json:"unlockedModules"`
}

func storeKey(userID, courseID string) string {
	return fmt.Sprintf("progress:%s:%s:", userID, courseID)
}

// store 返回学员在该课程下的 Store。首次创建时从本地槽位恢复，
// 恢复完成前所有调用者都会等待
func (s *ProgressService) store(ctx context.Context, userID, courseID string) *progress.Store {
	key := storeKey(userID, courseID)

	s.mu.Lock()
	entry, ok := s.stores[key]
	if !ok {
		entry = &storeEntry{store: progress.NewStore(s.Slots, key)}
		s.stores[key] = entry
	}
	entry.lastUsed = s.now()
	s.mu.Unlock()

	entry.store.EnsureRestored(ctx)
	return entry.store
}

// EvictIdle 移除超过 maxIdle 未访问且没有待写入数据的 Store，返回移除数量。
// 已完成集合都在槽位中，下次访问时会重新恢复；当前章节指针随之丢失。
func (s *ProgressService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, entry := range s.stores {
		if entry.lastUsed.After(cutoff) || entry.store.Pending() {
			continue
		}
		delete(s.stores, key)
		evicted++
	}
	return evicted
}

// RunEviction 定期清理空闲 Store，直到 ctx 取消
func (s *ProgressService) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(maxIdle); n > 0 {
				logger.Log.Debug("Evicted idle progress stores", zap.Int("count", n))
			}
		}
	}
}

// ensureLoaded 尚未加载结构时从后端拉取
func (s *ProgressService) ensureLoaded(ctx context.Context, st *progress.Store, courseID, token string) error {
	if st.State().Loaded() {
		return nil
	}
	return s.refresh(ctx, st, courseID, token)
}

func (s *ProgressService) refresh(ctx context.Context, st *progress.Store, courseID, token string) error {
	ctx, span := tracing.Tracer.Start(ctx, "progress.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("course.id", courseID))

	modules, err := s.Backend.FetchStructure(ctx, courseID, token)
	if err != nil {
		span.RecordError(err)
		return err
	}
	st.LoadStructure(modules)
	return nil
}

// GetProgress 返回完整进度视图
func (s *ProgressService) GetProgress(ctx context.Context, userID, courseID, token string) (*ProgressView, error) {
	st := s.store(ctx, userID, courseID)
	if err := s.ensureLoaded(ctx, st, courseID, token); err != nil {
		return nil, err
	}
	return buildView(courseID, st.State()), nil
}

// LoadStructure 直接使用调用方提供的模块树（整体替换）
func (s *ProgressService) LoadStructure(ctx context.Context, userID, courseID string, modules []progress.Module) *ProgressView {
	st := s.store(ctx, userID, courseID)
	st.LoadStructure(modules)
	return buildView(courseID, st.State())
}

// Refresh 从后端重新拉取结构
func (s *ProgressService) Refresh(ctx context.Context, userID, courseID, token string) (*ProgressView, error) {
	st := s.store(ctx, userID, courseID)
	if err := s.refresh(ctx, st, courseID, token); err != nil {
		return nil, err
	}
	return buildView(courseID, st.State()), nil
}

func (s *ProgressService) SetCurrentSection(ctx context.Context, userID, courseID, sectionID string) {
	s.store(ctx, userID, courseID).SetCurrentSection(sectionID)
}

// CurrentSection 当前没有指向任何已知章节时 ok 为 false
func (s *ProgressService) CurrentSection(ctx context.Context, userID, courseID string) (SectionView, bool) {
	state := s.store(ctx, userID, courseID).State()
	sec, ok := progress.CurrentSection(state)
	if !ok {
		return SectionView{}, false
	}
	return SectionView{Section: sec, Completed: progress.IsSectionCompleted(state, sec.ID)}, true
}

// CompleteSection 上报后端，重新拉取结构，再在本地标记完成
func (s *ProgressService) CompleteSection(ctx context.Context, userID, courseID, sectionID, token string) (*ProgressView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "progress.complete_section")
	defer span.End()
	span.SetAttributes(attribute.String("course.id", courseID), attribute.String("section.id", sectionID))

	st := s.store(ctx, userID, courseID)

	if err := s.Backend.ReportSectionAttended(ctx, sectionID, token); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.refresh(ctx, st, courseID, token); err != nil {
		// 上报已成功，结构刷新失败不影响本地记录
		logger.Log.Warn("Structure reload after completion failed",
			zap.String("course_id", courseID),
			zap.String("section_id", sectionID),
			zap.Error(err),
		)
	}

	st.CompleteSection(sectionID)
	return buildView(courseID, st.State()), nil
}

func (s *ProgressService) UnlockModule(ctx context.Context, userID, courseID, moduleID string) *ProgressView {
	st := s.store(ctx, userID, courseID)
	st.UnlockModule(moduleID)
	return buildView(courseID, st.State())
}

// NextSection 同模块内的下一个章节，结构未加载时先从后端拉取
func (s *ProgressService) NextSection(ctx context.Context, userID, courseID, sectionID, token string) (string, bool, error) {
	return s.neighbor(ctx, userID, courseID, sectionID, token, progress.NextSectionID)
}

// PrevSection 同模块内的上一个章节
func (s *ProgressService) PrevSection(ctx context.Context, userID, courseID, sectionID, token string) (string, bool, error) {
	return s.neighbor(ctx, userID, courseID, sectionID, token, progress.PrevSectionID)
}

func (s *ProgressService) neighbor(
	ctx context.Context,
	userID, courseID, sectionID, token string,
	selector func(progress.State, string) (string, bool),
) (string, bool, error) {
	st := s.store(ctx, userID, courseID)
	if err := s.ensureLoaded(ctx, st, courseID, token); err != nil {
		return "", false, err
	}
	id, ok := selector(st.State(), sectionID)
	return id, ok, nil
}

func (s *ProgressService) ModuleSections(ctx context.Context, userID, courseID, moduleID, token string) ([]SectionView, error) {
	st := s.store(ctx, userID, courseID)
	if err := s.ensureLoaded(ctx, st, courseID, token); err != nil {
		return nil, err
	}
	state := st.State()
	if _, ok := state.ModuleStatus(moduleID); !ok {
		return nil, util.ErrModuleNotFound
	}
	return sectionViews(state, moduleID), nil
}

// Wait 等待所有 Store 的后台写入完成，用于停机
func (s *ProgressService) Wait() {
	s.mu.Lock()
	stores := make([]*progress.Store, 0, len(s.stores))
	for _, entry := range s.stores {
		stores = append(stores, entry.store)
	}
	s.mu.Unlock()

	for _, st := range stores {
		st.Wait()
	}
}

func sectionViews(state progress.State, moduleID string) []SectionView {
	sections := progress.ModuleSections(state, moduleID)
	views := make([]SectionView, len(sections))
	for i, sec := range sections {
		views[i] = SectionView{Section: sec, Completed: progress.IsSectionCompleted(state, sec.ID)}
	}
	return views
}

func buildView(courseID string, state progress.State) *ProgressView {
	ids := state.ModuleIDs()
	modules := make([]ModuleView, len(ids))
	for i, id := range ids {
		status, _ := state.ModuleStatus(id)
		modules[i] = ModuleView{
			ID:       id,
			Name:     state.ModuleName(id),
			Status:   status,
			Unlocked: progress.IsModuleUnlocked(state, id),
			Progress: progress.ModuleProgress(state, id),
			Sections: sectionViews(state, id),
		}
	}

	view := &ProgressView{
		CourseID:          courseID,
		Modules:           modules,
		CompletedSections: state.CompletedSections(),
		UnlockedModules:   state.UnlockedModules(),
	}
	if cur := state.CurrentSectionID(); cur != "" {
		view.CurrentSectionID = &cur
	}
	return view
}
