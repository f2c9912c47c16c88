package progress

// State 某个学员在某门课程下的进度视图。
// State 是不可变值：所有变更方法都返回新的 State，原值保持不变。
type State struct {
	sectionsByModule  map[string][]string
	sectionEntities   map[string]Section
	moduleStatus      map[string]LockStatus
	moduleOrder       []string
	moduleNames       map[string]string
	completedSections []string
	unlockedModules   []string
	currentSectionID  string
	loaded            bool
}

// NewState 返回空状态
func NewState() State {
	return State{
		sectionsByModule: map[string][]string{},
		sectionEntities:  map[string]Section{},
		moduleStatus:     map[string]LockStatus{},
		moduleNames:      map[string]string{},
	}
}

// WithStructure 用后端返回的完整模块树整体替换三个结构映射。
// 不做字段校验，缺失字段按零值保留。
func (s State) WithStructure(modules []Module) State {
	sectionsByModule := make(map[string][]string, len(modules))
	sectionEntities := make(map[string]Section)
	moduleStatus := make(map[string]LockStatus, len(modules))
	order := make([]string, 0, len(modules))
	names := make(map[string]string, len(modules))

	for _, m := range modules {
		ids := make([]string, 0, len(m.Sections))
		for i, sec := range m.Sections {
			sec.ModuleID = m.ID
			sec.IsLast = i == len(m.Sections)-1
			sectionEntities[sec.ID] = sec
			ids = append(ids, sec.ID)
		}
		sectionsByModule[m.ID] = ids
		moduleStatus[m.ID] = m.Status
		order = append(order, m.ID)
		names[m.ID] = m.Name
	}

	next := s
	next.sectionsByModule = sectionsByModule
	next.sectionEntities = sectionEntities
	next.moduleStatus = moduleStatus
	next.moduleOrder = order
	next.moduleNames = names
	next.loaded = true
	return next
}

// WithRestored 合并本地恢复的两个集合，不触碰结构映射
func (s State) WithRestored(completed, unlocked []string) State {
	next := s
	next.completedSections = appendMissing(cloneStrings(s.completedSections), completed...)
	next.unlockedModules = appendMissing(cloneStrings(s.unlockedModules), unlocked...)
	return next
}

// WithCurrentSection 设置当前查看的章节，不校验ID是否存在
func (s State) WithCurrentSection(sectionID string) State {
	next := s
	next.currentSectionID = sectionID
	return next
}

// WithCompletedSection 幂等；changed 为 false 时返回原状态
func (s State) WithCompletedSection(sectionID string) (next State, changed bool) {
	if contains(s.completedSections, sectionID) {
		return s, false
	}
	next = s
	next.completedSections = append(cloneStrings(s.completedSections), sectionID)
	return next, true
}

// WithUnlockedModule 幂等；changed 为 false 时返回原状态
func (s State) WithUnlockedModule(moduleID string) (next State, changed bool) {
	if contains(s.unlockedModules, moduleID) {
		return s, false
	}
	next = s
	next.unlockedModules = append(cloneStrings(s.unlockedModules), moduleID)
	return next, true
}

// Loaded 是否已经加载过结构
func (s State) Loaded() bool {
	return s.loaded
}

func (s State) CurrentSectionID() string {
	return s.currentSectionID
}

func (s State) CompletedSections() []string {
	return cloneStrings(s.completedSections)
}

func (s State) UnlockedModules() []string {
	return cloneStrings(s.unlockedModules)
}

// ModuleIDs 按加载顺序返回模块ID
func (s State) ModuleIDs() []string {
	return cloneStrings(s.moduleOrder)
}

func (s State) ModuleName(moduleID string) string {
	return s.moduleNames[moduleID]
}

// Section 按ID查找章节
func (s State) Section(sectionID string) (Section, bool) {
	sec, ok := s.sectionEntities[sectionID]
	return sec, ok
}

// ModuleStatus 返回后端给出的锁定状态
func (s State) ModuleStatus(moduleID string) (LockStatus, bool) {
	st, ok := s.moduleStatus[moduleID]
	return st, ok
}

// SectionIDs 返回模块内章节ID的有序副本
func (s State) SectionIDs(moduleID string) []string {
	return cloneStrings(s.sectionsByModule[moduleID])
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func appendMissing(list []string, values ...string) []string {
	for _, v := range values {
		if !contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func cloneStrings(list []string) []string {
	if list == nil {
		return []string{}
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
