package macro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wavestorm/internal/engine/history"
	"github.com/dshills/wavestorm/internal/engine/track"
)

// testSession is a minimal Session: named tracks plus one history manager.
type testSession struct {
	manager *history.Manager
	tracks  map[string]*track.Track
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	mgr, err := history.NewManager(100)
	require.NoError(t, err)
	return &testSession{
		manager: mgr,
		tracks:  make(map[string]*track.Track),
	}
}

func (s *testSession) Track(name string) *track.Track {
	tr, ok := s.tracks[name]
	if !ok {
		tr = track.New(name)
		s.tracks[name] = tr
	}
	return tr
}

func (s *testSession) BeginBatch(description string) (*history.Batch, error) {
	return s.manager.BeginBatch(description)
}

func TestRunMacroIsOneUndoEntry(t *testing.T) {
	s := newTestSession(t)
	r := NewRunner(s)

	script := `
		wavestorm.add_clip("Drums", "kick", 0, 4)
		wavestorm.add_clip("Drums", "snare", 4, 4)
		wavestorm.set_param("Drums", "volume", 0.8)
	`
	require.NoError(t, r.Run("setup", script))

	drums := s.Track("Drums")
	assert.Equal(t, 2, drums.Len())
	assert.Equal(t, 0.8, drums.Param("volume"))

	require.Equal(t, 1, s.manager.UndoCount(), "whole script is one entry")
	info, ok := s.manager.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "Macro: setup", info.Description)

	require.NoError(t, s.manager.Undo())
	assert.Equal(t, 0, drums.Len())
	assert.Zero(t, drums.Param("volume"))
}

func TestRunMacroErrorRollsBack(t *testing.T) {
	s := newTestSession(t)
	r := NewRunner(s)

	// The second call targets an index that does not exist, so the first
	// edit must be rolled back.
	script := `
		wavestorm.add_clip("Drums", "kick", 0, 4)
		wavestorm.remove_clip("Drums", 5)
	`
	err := r.Run("broken", script)
	require.Error(t, err)

	assert.Equal(t, 0, s.Track("Drums").Len(), "edits rolled back on script error")
	assert.Equal(t, 0, s.manager.UndoCount(), "no history entry for a failed macro")
}

func TestRunMacroLuaErrorRollsBack(t *testing.T) {
	s := newTestSession(t)
	r := NewRunner(s)

	script := `
		wavestorm.add_clip("Drums", "kick", 0, 4)
		error("abort")
	`
	require.Error(t, r.Run("aborts", script))
	assert.Equal(t, 0, s.Track("Drums").Len())
}

func TestRunMacroReadFunctions(t *testing.T) {
	s := newTestSession(t)
	s.Track("Drums").Append(track.Clip{Name: "kick", Length: 4})
	s.Track("Drums").SetParam("volume", 0.5)
	r := NewRunner(s)

	script := `
		assert(wavestorm.clip_count("Drums") == 1)
		assert(wavestorm.param("Drums", "volume") == 0.5)
	`
	assert.NoError(t, r.Run("reads", script))
}

func TestRunMacroMoveAndIndexing(t *testing.T) {
	s := newTestSession(t)
	r := NewRunner(s)

	script := `
		wavestorm.add_clip("Bass", "a", 0, 4)
		wavestorm.add_clip("Bass", "b", 4, 4)
		wavestorm.move_clip("Bass", 1, 2)
	`
	require.NoError(t, r.Run("shuffle", script))

	clips := s.Track("Bass").Clips()
	require.Len(t, clips, 2)
	assert.Equal(t, "b", clips[0].Name, "Lua indexes are 1-based")
	assert.Equal(t, "a", clips[1].Name)
}

func TestRunEmptyScript(t *testing.T) {
	r := NewRunner(newTestSession(t))
	assert.ErrorIs(t, r.Run("empty", "   \n"), ErrEmptyScript)
}

func TestSandboxExcludesOSAndIO(t *testing.T) {
	r := NewRunner(newTestSession(t))
	script := `
		assert(os == nil, "os must not be available")
		assert(io == nil, "io must not be available")
	`
	assert.NoError(t, r.Run("sandbox", script))
}

func TestRunFile(t *testing.T) {
	s := newTestSession(t)
	r := NewRunner(s)

	path := filepath.Join(t.TempDir(), "layer.lua")
	require.NoError(t, os.WriteFile(path, []byte(`wavestorm.add_clip("Keys", "pad", 0, 8)`), 0o644))

	require.NoError(t, r.RunFile(path))
	assert.Equal(t, 1, s.Track("Keys").Len())

	info, ok := s.manager.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "Macro: layer", info.Description)

	assert.Error(t, r.RunFile(filepath.Join(t.TempDir(), "missing.lua")))
}
