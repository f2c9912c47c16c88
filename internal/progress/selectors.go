package progress

// 纯函数选择器：只读 State，无副作用

// NextSectionID 返回同一模块内的下一个章节，模块末尾或ID未知时 ok 为 false。
// 不跨模块遍历。
func NextSectionID(s State, sectionID string) (string, bool) {
	return neighbor(s, sectionID, 1)
}

// PrevSectionID 返回同一模块内的上一个章节
func PrevSectionID(s State, sectionID string) (string, bool) {
	return neighbor(s, sectionID, -1)
}

func neighbor(s State, sectionID string, step int) (string, bool) {
	sec, ok := s.sectionEntities[sectionID]
	if !ok {
		return "", false
	}
	ids := s.sectionsByModule[sec.ModuleID]
	for i, id := range ids {
		if id != sectionID {
			continue
		}
		j := i + step
		if j < 0 || j >= len(ids) {
			return "", false
		}
		return ids[j], true
	}
	return "", false
}

// CurrentSection 返回当前指针指向的章节
func CurrentSection(s State) (Section, bool) {
	if s.currentSectionID == "" {
		return Section{}, false
	}
	return s.Section(s.currentSectionID)
}

// ModuleSections 按顺序返回模块的章节，缺失的查找项被跳过
func ModuleSections(s State, moduleID string) []Section {
	ids := s.sectionsByModule[moduleID]
	out := make([]Section, 0, len(ids))
	for _, id := range ids {
		if sec, ok := s.sectionEntities[id]; ok {
			out = append(out, sec)
		}
	}
	return out
}

func IsSectionCompleted(s State, sectionID string) bool {
	return contains(s.completedSections, sectionID)
}

// IsModuleUnlocked 后端状态优先；结构中不存在该模块时才参考本地解锁集合
func IsModuleUnlocked(s State, moduleID string) bool {
	if st, ok := s.moduleStatus[moduleID]; ok {
		return st == Unlocked || st == Completed
	}
	return contains(s.unlockedModules, moduleID)
}

// Progress 模块完成度
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func ModuleProgress(s State, moduleID string) Progress {
	ids := s.sectionsByModule[moduleID]
	p := Progress{Total: len(ids)}
	for _, id := range ids {
		if contains(s.completedSections, id) {
			p.Completed++
		}
	}
	return p
}
