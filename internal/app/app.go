// Package app wires the Wavestorm engine together: configuration, logging,
// the event bus, the edit session, and its command history.
package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dshills/wavestorm/internal/config"
	"github.com/dshills/wavestorm/internal/engine/history"
	"github.com/dshills/wavestorm/internal/engine/track"
	"github.com/dshills/wavestorm/internal/event"
	"github.com/dshills/wavestorm/internal/event/events"
)

// shutdownTimeout bounds how long Shutdown waits for the bus to drain.
const shutdownTimeout = 5 * time.Second

// Options configures application startup. Zero values defer to the
// configuration file and built-in defaults.
type Options struct {
	// ConfigPath is the JSON configuration file path.
	ConfigPath string

	// LogLevel overrides logging.level when non-empty.
	LogLevel string

	// MaxHistory overrides engine.history.maxEntries when positive.
	MaxHistory int
}

// Application owns the engine's long-lived components and exposes the edit
// surface a UI or console layer talks to.
type Application struct {
	cfg     config.Config
	logger  *Logger
	bus     *event.Bus
	history *history.Manager
	logFile *os.File

	mu     sync.Mutex
	tracks map[string]*track.Track
}

// New creates and wires an application from options.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.MaxHistory > 0 {
		cfg.Engine.History.MaxEntries = opts.MaxHistory
	}

	app := &Application{
		cfg:    cfg,
		tracks: make(map[string]*track.Track),
	}

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(cfg.Logging.Level)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		app.logFile = f
		logCfg.Output = f
	}
	app.logger = NewLogger(logCfg)

	app.bus = event.NewBus()
	if err := app.bus.Start(); err != nil {
		return nil, fmt.Errorf("start event bus: %w", err)
	}

	mgr, err := history.NewManager(cfg.Engine.History.MaxEntries,
		history.WithLogger(app.logger.WithComponent("history")))
	if err != nil {
		return nil, fmt.Errorf("create history manager: %w", err)
	}
	app.history = mgr
	app.bridgeHistoryEvents()

	app.logger.Info("session %q ready (history bound to %d entries)",
		cfg.Session.Name, cfg.Engine.History.MaxEntries)
	return app, nil
}

// bridgeHistoryEvents republishes manager notifications on the bus so
// observers never need a direct reference to the manager.
func (app *Application) bridgeHistoryEvents() {
	app.history.OnPostApply(func(n history.Notification) {
		topic := events.TopicHistoryExecuted
		switch n.Op {
		case history.OpUndo:
			topic = events.TopicHistoryUndone
		case history.OpRedo:
			topic = events.TopicHistoryRedone
		}
		_ = app.bus.Publish(context.Background(), topic, events.HistoryApplied{
			Op:          n.Op.String(),
			Description: n.Description,
		})
	})

	app.history.OnStateChanged(func() {
		_ = app.bus.Publish(context.Background(), events.TopicHistoryChanged, events.HistoryChanged{
			CanUndo:   app.history.CanUndo(),
			CanRedo:   app.history.CanRedo(),
			UndoCount: app.history.UndoCount(),
			RedoCount: app.history.RedoCount(),
		})
	})
}

// SessionName returns the configured session name.
func (app *Application) SessionName() string {
	return app.cfg.Session.Name
}

// Track returns the named track, creating it on first use.
func (app *Application) Track(name string) *track.Track {
	app.mu.Lock()
	defer app.mu.Unlock()

	t, ok := app.tracks[name]
	if !ok {
		t = track.New(name)
		app.tracks[name] = t
		app.logger.Debug("created track %q", name)
	}
	return t
}

// TrackNames returns the session's track names, sorted.
func (app *Application) TrackNames() []string {
	app.mu.Lock()
	defer app.mu.Unlock()

	names := make([]string, 0, len(app.tracks))
	for name := range app.tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Submit executes a command through the history manager.
func (app *Application) Submit(cmd history.Command) error {
	return app.history.Execute(cmd)
}

// Undo reverses the most recent history entry.
func (app *Application) Undo() error {
	return app.history.Undo()
}

// Redo reapplies the most recently undone entry.
func (app *Application) Redo() error {
	return app.history.Redo()
}

// ClearHistory empties both history stacks.
func (app *Application) ClearHistory() error {
	return app.history.Clear()
}

// BeginBatch opens a batch on the session's history.
func (app *Application) BeginBatch(description string) (*history.Batch, error) {
	return app.history.BeginBatch(description)
}

// History exposes the manager for introspection (peeks, counts, lists).
func (app *Application) History() *history.Manager {
	return app.history
}

// Bus returns the application's event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Shutdown stops the event bus and releases resources. Safe to call on all
// exit paths.
func (app *Application) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.bus.Stop(ctx); err != nil && err != event.ErrBusNotRunning {
		app.logger.Warn("event bus shutdown: %v", err)
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}
