package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlots struct {
	mu     sync.Mutex
	data   map[string]string
	writes int
	getErr error
	setErr error
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{data: map[string]string{}}
}

func (f *fakeSlots) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeSlots) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeSlots) value(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

func (f *fakeSlots) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

const prefix = "progress:u1:c1:"

func TestRestoreProgress(t *testing.T) {
	slots := newFakeSlots()
	slots.data[prefix+CompletedSectionsSlot] = `["s1","s2"]`
	slots.data[prefix+UnlockedModulesSlot] = `["m2"]`

	store := NewStore(slots, prefix)
	store.LoadStructure(sampleModules())
	store.RestoreProgress(context.Background())

	state := store.State()
	assert.Equal(t, []string{"s1", "s2"}, state.CompletedSections())
	assert.Equal(t, []string{"m2"}, state.UnlockedModules())
	assert.Equal(t, []string{"m1", "m2"}, state.ModuleIDs(), "restore must not touch structure")
}

func TestRestoreProgressCorruptData(t *testing.T) {
	slots := newFakeSlots()
	slots.data[prefix+CompletedSectionsSlot] = `{not json`
	slots.data[prefix+UnlockedModulesSlot] = `"m1"`

	store := NewStore(slots, prefix)
	assert.NotPanics(t, func() {
		store.RestoreProgress(context.Background())
	})

	state := store.State()
	assert.Empty(t, state.CompletedSections())
	assert.Empty(t, state.UnlockedModules())
}

func TestRestoreProgressMissingOrFailing(t *testing.T) {
	store := NewStore(newFakeSlots(), prefix)
	store.RestoreProgress(context.Background())
	assert.Empty(t, store.State().CompletedSections())

	failing := newFakeSlots()
	failing.getErr = errors.New("disk gone")
	store = NewStore(failing, prefix)
	store.RestoreProgress(context.Background())
	assert.Empty(t, store.State().UnlockedModules())
}

func TestCompleteSectionPersistsOnce(t *testing.T) {
	slots := newFakeSlots()
	store := NewStore(slots, prefix)

	store.CompleteSection("s1")
	store.Wait()
	store.CompleteSection("s1")
	store.Wait()

	assert.Equal(t, []string{"s1"}, store.State().CompletedSections())
	assert.Equal(t, 1, slots.writeCount(), "idempotent call must not write again")
	assert.JSONEq(t, `["s1"]`, slots.value(prefix+CompletedSectionsSlot))
}

func TestCompleteSectionDoesNotChangeModuleStatus(t *testing.T) {
	store := NewStore(nil, prefix)
	store.LoadStructure(sampleModules())

	store.CompleteSection("s3")

	status, _ := store.State().ModuleStatus("m2")
	assert.Equal(t, Locked, status)
}

func TestUnlockModulePersistsOnce(t *testing.T) {
	slots := newFakeSlots()
	store := NewStore(slots, prefix)

	store.UnlockModule("m1")
	store.UnlockModule("m1")
	store.UnlockModule("m2")
	store.Wait()

	assert.Equal(t, []string{"m1", "m2"}, store.State().UnlockedModules())
	assert.Equal(t, 2, slots.writeCount())
	assert.JSONEq(t, `["m1","m2"]`, slots.value(prefix+UnlockedModulesSlot))
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	slots := newFakeSlots()
	slots.setErr = errors.New("read-only")
	store := NewStore(slots, prefix)

	assert.NotPanics(t, func() {
		store.CompleteSection("s1")
		store.Wait()
	})
	assert.Equal(t, []string{"s1"}, store.State().CompletedSections())
}

func TestConcurrentCompletionsAllPersisted(t *testing.T) {
	slots := newFakeSlots()
	store := NewStore(slots, prefix)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			store.CompleteSection(id)
		}(id)
	}
	wg.Wait()
	store.Wait()

	// 最后一次写入包含全部ID
	restored := NewStore(slots, prefix)
	restored.RestoreProgress(context.Background())
	assert.ElementsMatch(t, ids, restored.State().CompletedSections())
}

func TestSetCurrentSectionIsNotPersisted(t *testing.T) {
	slots := newFakeSlots()
	store := NewStore(slots, prefix)

	store.SetCurrentSection("s2")
	store.Wait()

	assert.Equal(t, "s2", store.State().CurrentSectionID())
	assert.Equal(t, 0, slots.writeCount())
}

func TestLoadStructureLastLoadWins(t *testing.T) {
	store := NewStore(nil, prefix)
	store.LoadStructure(sampleModules())
	store.LoadStructure([]Module{{ID: "m1", Status: Completed, Sections: []Section{{ID: "s9"}}}})

	state := store.State()
	status, ok := state.ModuleStatus("m1")
	require.True(t, ok)
	assert.Equal(t, Completed, status)
	_, ok = state.ModuleStatus("m2")
	assert.False(t, ok)
	_, ok = PrevSectionID(state, "s2")
	assert.False(t, ok)
}

// gatedSlots 读取时阻塞，直到 release 被关闭
type gatedSlots struct {
	*fakeSlots
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSlots) Get(ctx context.Context, key string) (string, bool, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.fakeSlots.Get(ctx, key)
}

func TestEnsureRestoredBlocksConcurrentCallers(t *testing.T) {
	slots := &gatedSlots{fakeSlots: newFakeSlots(), entered: make(chan struct{}), release: make(chan struct{})}
	slots.data[prefix+CompletedSectionsSlot] = `["old"]`
	store := NewStore(slots, prefix)

	go store.EnsureRestored(context.Background())
	<-slots.entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.EnsureRestored(context.Background())
		store.CompleteSection("s1")
	}()

	assert.Never(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond, "second caller must wait for the restore in progress")

	close(slots.release)
	<-done
	store.Wait()

	assert.ElementsMatch(t, []string{"old", "s1"}, store.State().CompletedSections())
	assert.JSONEq(t, `["old","s1"]`, slots.value(prefix+CompletedSectionsSlot))
}

func TestEnsureRestoredRunsOnce(t *testing.T) {
	slots := newFakeSlots()
	slots.data[prefix+CompletedSectionsSlot] = `["s1"]`
	store := NewStore(slots, prefix)

	store.EnsureRestored(context.Background())
	slots.data[prefix+CompletedSectionsSlot] = `["s1","s2"]`
	store.EnsureRestored(context.Background())

	assert.Equal(t, []string{"s1"}, store.State().CompletedSections())
}

func TestPendingTracksBackgroundWrites(t *testing.T) {
	slots := &gatedSetSlots{fakeSlots: newFakeSlots(), release: make(chan struct{})}
	store := NewStore(slots, prefix)

	assert.False(t, store.Pending())
	store.UnlockModule("m2")
	assert.True(t, store.Pending())

	close(slots.release)
	store.Wait()
	assert.False(t, store.Pending())
}

// gatedSetSlots 写入时阻塞，直到 release 被关闭
type gatedSetSlots struct {
	*fakeSlots
	release chan struct{}
}

func (g *gatedSetSlots) Set(ctx context.Context, key, value string) error {
	<-g.release
	return g.fakeSlots.Set(ctx, key, value)
}
