package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wavestorm/internal/engine/track"
	"github.com/dshills/wavestorm/internal/event"
	"github.com/dshills/wavestorm/internal/event/events"
)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.LogLevel == "" {
		opts.LogLevel = "error"
	}
	application, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)
	return application
}

func TestNewAppliesOverrides(t *testing.T) {
	application := newTestApp(t, Options{MaxHistory: 50})

	assert.Equal(t, "untitled", application.SessionName())
	assert.Equal(t, 50, application.History().MaxEntries())
	assert.True(t, application.Bus().IsRunning())
}

func TestNewReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavestorm.json")
	data := `{"session":{"name":"demo"},"engine":{"history":{"maxEntries":25}}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	application := newTestApp(t, Options{ConfigPath: path})

	assert.Equal(t, "demo", application.SessionName())
	assert.Equal(t, 25, application.History().MaxEntries())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavestorm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logging":{"level":"loud"}}`), 0o644))

	_, err := New(Options{ConfigPath: path})
	assert.Error(t, err)
}

func TestTrackGetOrCreate(t *testing.T) {
	application := newTestApp(t, Options{})

	drums := application.Track("Drums")
	assert.Same(t, drums, application.Track("Drums"))

	application.Track("Bass")
	assert.Equal(t, []string{"Bass", "Drums"}, application.TrackNames())
}

func TestSubmitPublishesHistoryEvents(t *testing.T) {
	application := newTestApp(t, Options{})

	var applied []events.HistoryApplied
	var changed []events.HistoryChanged
	for _, topic := range []event.Topic{
		events.TopicHistoryExecuted,
		events.TopicHistoryUndone,
		events.TopicHistoryRedone,
	} {
		_, err := application.Bus().SubscribeFunc(topic, func(_ context.Context, payload any) error {
			applied = append(applied, payload.(events.HistoryApplied))
			return nil
		})
		require.NoError(t, err)
	}
	_, err := application.Bus().SubscribeFunc(events.TopicHistoryChanged,
		func(_ context.Context, payload any) error {
			changed = append(changed, payload.(events.HistoryChanged))
			return nil
		})
	require.NoError(t, err)

	drums := application.Track("Drums")
	require.NoError(t, application.Submit(track.NewAddClipCommand(drums, track.Clip{Name: "kick", Length: 4})))
	require.NoError(t, application.Undo())
	require.NoError(t, application.Redo())

	// Sync subscriptions deliver before Publish returns, so everything has
	// arrived by now.
	require.Len(t, applied, 3)
	assert.Equal(t, "execute", applied[0].Op)
	assert.Equal(t, "undo", applied[1].Op)
	assert.Equal(t, "redo", applied[2].Op)
	assert.Equal(t, "Add clip kick to Drums", applied[0].Description)

	require.Len(t, changed, 3)
	assert.True(t, changed[0].CanUndo)
	assert.False(t, changed[0].CanRedo)
	assert.True(t, changed[1].CanRedo)
	assert.Equal(t, 1, changed[2].UndoCount)
}

func TestBeginBatchLandsAsOneEntry(t *testing.T) {
	application := newTestApp(t, Options{})
	drums := application.Track("Drums")

	batch, err := application.BeginBatch("Record take")
	require.NoError(t, err)
	require.NoError(t, batch.Execute(track.NewAddClipCommand(drums, track.Clip{Name: "take1", Length: 8})))
	require.NoError(t, batch.Execute(track.NewSetParamCommand(drums, "volume", 0.9)))
	require.NoError(t, batch.Commit())

	assert.Equal(t, 1, application.History().UndoCount())
	require.NoError(t, application.Undo())
	assert.Equal(t, 0, drums.Len())
}

func TestShutdownIsSafeToRepeat(t *testing.T) {
	application, err := New(Options{LogLevel: "error"})
	require.NoError(t, err)

	application.Shutdown()
	application.Shutdown()
	assert.False(t, application.Bus().IsRunning())
}

func TestLogFileIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavestorm.log")
	cfgPath := filepath.Join(t.TempDir(), "wavestorm.json")
	data := `{"logging":{"level":"debug","file":"` + path + `"}}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0o644))

	application := newTestApp(t, Options{ConfigPath: cfgPath})
	application.Logger().Info("hello")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "hello")
}
