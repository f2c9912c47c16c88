package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModules() []Module {
	return []Module{
		{ID: "m1", Name: "Basics", Status: Unlocked, Sections: []Section{
			{ID: "s1", Name: "Intro", Type: ContentVideo},
			{ID: "s2", Name: "Slides", Type: ContentPDF},
		}},
		{ID: "m2", Name: "Advanced", Status: Locked, Sections: []Section{
			{ID: "s3", Name: "Deep dive", Type: ContentImage},
		}},
	}
}

func TestNextPrevWithinModule(t *testing.T) {
	state := NewState().WithStructure([]Module{
		{ID: "m", Sections: []Section{{ID: "A"}, {ID: "B"}, {ID: "C"}}},
	})

	tests := []struct {
		name     string
		selector func(State, string) (string, bool)
		from     string
		want     string
		wantOK   bool
	}{
		{"next of first", NextSectionID, "A", "B", true},
		{"next of middle", NextSectionID, "B", "C", true},
		{"next of last", NextSectionID, "C", "", false},
		{"prev of last", PrevSectionID, "C", "B", true},
		{"prev of middle", PrevSectionID, "B", "A", true},
		{"prev of first", PrevSectionID, "A", "", false},
		{"next of unknown", NextSectionID, "Z", "", false},
		{"prev of unknown", PrevSectionID, "Z", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.selector(state, tt.from)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorsDoNotCrossModules(t *testing.T) {
	state := NewState().WithStructure(sampleModules())

	next, ok := NextSectionID(state, "s1")
	require.True(t, ok)
	assert.Equal(t, "s2", next)

	_, ok = NextSectionID(state, "s2")
	assert.False(t, ok, "end of m1 must not continue into m2")

	_, ok = PrevSectionID(state, "s3")
	assert.False(t, ok, "start of m2 must not go back into m1")
}

func TestSelectorsOnEmptyState(t *testing.T) {
	state := NewState()

	_, ok := NextSectionID(state, "s1")
	assert.False(t, ok)
	_, ok = PrevSectionID(state, "s1")
	assert.False(t, ok)
	_, ok = CurrentSection(state)
	assert.False(t, ok)
	assert.Empty(t, ModuleSections(state, "m1"))
}

func TestCurrentSection(t *testing.T) {
	state := NewState().WithStructure(sampleModules()).WithCurrentSection("s2")

	sec, ok := CurrentSection(state)
	require.True(t, ok)
	assert.Equal(t, "s2", sec.ID)
	assert.Equal(t, "m1", sec.ModuleID)

	// 指针不做校验，未知ID只是查不到
	state = state.WithCurrentSection("missing")
	assert.Equal(t, "missing", state.CurrentSectionID())
	_, ok = CurrentSection(state)
	assert.False(t, ok)
}

func TestIsModuleUnlocked(t *testing.T) {
	state := NewState().WithStructure(sampleModules())

	assert.True(t, IsModuleUnlocked(state, "m1"))
	assert.False(t, IsModuleUnlocked(state, "m2"))

	// 本地解锁集合不能推翻后端给出的状态
	state, _ = state.WithUnlockedModule("m2")
	assert.False(t, IsModuleUnlocked(state, "m2"))

	// 结构中不存在的模块才参考本地集合
	state, _ = state.WithUnlockedModule("m9")
	assert.True(t, IsModuleUnlocked(state, "m9"))
}

func TestModuleProgress(t *testing.T) {
	state := NewState().WithStructure(sampleModules())
	state, _ = state.WithCompletedSection("s1")

	assert.Equal(t, Progress{Completed: 1, Total: 2}, ModuleProgress(state, "m1"))
	assert.Equal(t, Progress{Completed: 0, Total: 1}, ModuleProgress(state, "m2"))
	assert.Equal(t, Progress{}, ModuleProgress(state, "nope"))
	assert.True(t, IsSectionCompleted(state, "s1"))
	assert.False(t, IsSectionCompleted(state, "s2"))
}
