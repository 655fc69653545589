package history

import (
	"sync"
	"sync/atomic"
	"time"
)

// OpKind identifies which manager operation a notification belongs to.
type OpKind int

const (
	// OpExecute is a fresh forward edit submitted through Execute.
	OpExecute OpKind = iota
	// OpUndo is a reversal of the top undo entry.
	OpUndo
	// OpRedo is a reapplication of the top redo entry.
	OpRedo
)

// String returns a human-readable operation name.
func (k OpKind) String() string {
	switch k {
	case OpExecute:
		return "execute"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Notification describes a manager operation delivered to pre/post listeners.
type Notification struct {
	Op          OpKind
	Description string
}

// ApplyListener receives pre-apply and post-apply notifications.
// Pre fires before the command body runs, post fires after the stacks have
// been updated. Both fire while the operation is still in progress, so a
// listener that calls back into Execute, Undo, or Redo receives
// ErrReentrantCall.
type ApplyListener func(Notification)

// StateListener receives state-changed notifications. These fire after the
// operation has fully completed and the re-entrancy guard is released, so a
// listener may safely call back into the manager. The stack state observed
// inside the listener may differ from the state at the instant the
// notification was produced if another goroutine's operation interleaves.
type StateListener func()

// Logger is the minimal logging surface the manager needs. The application
// layer adapts its structured logger to this interface.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// EntryInfo provides read-only info about a history entry, used for
// displaying undo/redo history to users.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}

// entry wraps a command with metadata.
type entry struct {
	command   Command
	timestamp time.Time
}

// Manager owns the undo and redo stacks. It executes submitted commands
// immediately, records them for reversal, performs merge compaction against
// the top of the undo stack, enforces the configured size bound, and emits
// lifecycle notifications.
//
// All mutating operations are guarded by a re-entrancy flag held for the
// duration of the call; stack reads and writes are additionally protected
// by a mutex so introspection is safe from any goroutine.
type Manager struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	// busy is held for the duration of one Execute/Undo/Redo/Clear call,
	// including the command body. Nested or concurrent calls fail fast.
	busy atomic.Bool

	maxEntries int

	listenerMu sync.RWMutex
	preApply   []ApplyListener
	postApply  []ApplyListener
	changed    []StateListener

	logger Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger attaches a logger to the manager.
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a history manager bounded to maxEntries undo entries.
func NewManager(maxEntries int, opts ...Option) (*Manager, error) {
	if maxEntries <= 0 {
		return nil, ErrInvalidMaxEntries
	}
	m := &Manager{
		maxEntries: maxEntries,
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// OnPreApply registers a listener fired before each command body runs.
func (m *Manager) OnPreApply(fn ApplyListener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.preApply = append(m.preApply, fn)
}

// OnPostApply registers a listener fired after each operation's stack
// mutation completes.
func (m *Manager) OnPostApply(fn ApplyListener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.postApply = append(m.postApply, fn)
}

// OnStateChanged registers a listener fired whenever the stacks change.
func (m *Manager) OnStateChanged(fn StateListener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.changed = append(m.changed, fn)
}

// Execute runs a command and records it on the undo stack. The redo stack
// is cleared: a new forward edit abandons any redo branch. If the command
// on top of the undo stack can merge with cmd, the two are compacted into
// one entry instead of growing the stack.
func (m *Manager) Execute(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if !m.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}

	note := Notification{Op: OpExecute, Description: cmd.Description()}
	m.notifyPre(note)

	if err := cmd.Execute(); err != nil {
		// Nothing was pushed; the stacks only ever reflect confirmed edits.
		m.busy.Store(false)
		return err
	}

	m.mu.Lock()
	m.record(cmd)
	m.redoStack = nil
	m.mu.Unlock()

	m.notifyPost(note)
	m.busy.Store(false)
	m.notifyChanged()
	return nil
}

// record merges cmd into the top undo entry when eligible, otherwise pushes
// it and enforces the size bound. Caller must hold m.mu.
func (m *Manager) record(cmd Command) {
	if n := len(m.undoStack); n > 0 {
		top := m.undoStack[n-1]
		if merger, ok := top.command.(Merger); ok && merger.CanMergeWith(cmd) {
			merged, err := merger.MergeWith(cmd)
			if err == nil && merged != nil {
				m.undoStack[n-1] = &entry{command: merged, timestamp: time.Now()}
				m.logger.Debug("merged history entry: %s", merged.Description())
				return
			}
			m.logger.Warn("merge failed, recording separately: %v", err)
		}
	}

	m.undoStack = append(m.undoStack, &entry{command: cmd, timestamp: time.Now()})
	m.trimLocked()
}

// trimLocked discards the oldest undo entries until the stack fits the
// configured bound. Caller must hold m.mu.
func (m *Manager) trimLocked() {
	if len(m.undoStack) > m.maxEntries {
		excess := len(m.undoStack) - m.maxEntries
		m.undoStack = m.undoStack[excess:]
	}
}

// Undo reverses the most recent undo entry and moves it to the redo stack.
// Returns ErrNothingToUndo when the undo stack is empty.
func (m *Manager) Undo() error {
	if m.UndoCount() == 0 {
		return ErrNothingToUndo
	}
	if !m.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}

	m.mu.Lock()
	n := len(m.undoStack)
	if n == 0 {
		m.mu.Unlock()
		m.busy.Store(false)
		return ErrNothingToUndo
	}
	e := m.undoStack[n-1]
	m.undoStack = m.undoStack[:n-1]
	m.mu.Unlock()

	note := Notification{Op: OpUndo, Description: e.command.Description()}
	m.notifyPre(note)

	if err := e.command.Undo(); err != nil {
		// Restore the entry; the edit is still (at least partially) applied.
		m.mu.Lock()
		m.undoStack = append(m.undoStack, e)
		m.mu.Unlock()
		m.busy.Store(false)
		return err
	}

	m.mu.Lock()
	m.redoStack = append(m.redoStack, e)
	m.mu.Unlock()

	m.notifyPost(note)
	m.busy.Store(false)
	m.notifyChanged()
	return nil
}

// Redo reapplies the most recent redo entry and moves it back to the undo
// stack. Returns ErrNothingToRedo when the redo stack is empty. The entry
// transits between stacks with its identity intact, and no trimming occurs:
// redo only restores an entry that already fit the bound.
func (m *Manager) Redo() error {
	if m.RedoCount() == 0 {
		return ErrNothingToRedo
	}
	if !m.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}

	m.mu.Lock()
	n := len(m.redoStack)
	if n == 0 {
		m.mu.Unlock()
		m.busy.Store(false)
		return ErrNothingToRedo
	}
	e := m.redoStack[n-1]
	m.redoStack = m.redoStack[:n-1]
	m.mu.Unlock()

	note := Notification{Op: OpRedo, Description: e.command.Description()}
	m.notifyPre(note)

	if err := redoCommand(e.command); err != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, e)
		m.mu.Unlock()
		m.busy.Store(false)
		return err
	}

	m.mu.Lock()
	m.undoStack = append(m.undoStack, e)
	m.mu.Unlock()

	m.notifyPost(note)
	m.busy.Store(false)
	m.notifyChanged()
	return nil
}

// Clear empties both stacks unconditionally.
func (m *Manager) Clear() error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}

	m.mu.Lock()
	m.undoStack = nil
	m.redoStack = nil
	m.mu.Unlock()

	m.busy.Store(false)
	m.notifyChanged()
	return nil
}

// BeginBatch returns a new open batch bound to this manager. The manager's
// stacks are untouched until the batch finalizes.
func (m *Manager) BeginBatch(description string) (*Batch, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	return &Batch{
		manager:   m,
		composite: NewComposite(description),
	}, nil
}

// pushComposite records a committed batch's composite as one atomic undo
// entry. Composites bypass merge compaction, and no per-command
// notifications fire here: the commands already executed through the batch.
func (m *Manager) pushComposite(c *Composite) {
	if c == nil || c.IsEmpty() {
		return
	}

	m.mu.Lock()
	m.undoStack = append(m.undoStack, &entry{command: c, timestamp: time.Now()})
	m.redoStack = nil
	m.trimLocked()
	m.mu.Unlock()

	m.logger.Debug("committed batch: %s (%d commands)", c.Description(), c.Len())
	m.notifyChanged()
}

// CanUndo returns true if undo is available.
func (m *Manager) CanUndo() bool {
	return m.UndoCount() > 0
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return m.RedoCount() > 0
}

// UndoCount returns the number of undo entries.
func (m *Manager) UndoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack)
}

// RedoCount returns the number of redo entries.
func (m *Manager) RedoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack)
}

// MaxEntries returns the configured undo stack bound.
func (m *Manager) MaxEntries() int {
	return m.maxEntries
}

// PeekUndo returns info about the next undo candidate without removing it.
func (m *Manager) PeekUndo() (EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return peek(m.undoStack)
}

// PeekRedo returns info about the next redo candidate without removing it.
func (m *Manager) PeekRedo() (EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return peek(m.redoStack)
}

// UndoList returns the undo entries most-recent-first.
func (m *Manager) UndoList() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return listNewestFirst(m.undoStack)
}

// RedoList returns the redo entries most-recent-first.
func (m *Manager) RedoList() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return listNewestFirst(m.redoStack)
}

func peek(stack []*entry) (EntryInfo, bool) {
	if len(stack) == 0 {
		return EntryInfo{}, false
	}
	e := stack[len(stack)-1]
	return EntryInfo{Description: e.command.Description(), Timestamp: e.timestamp}, true
}

func listNewestFirst(stack []*entry) []EntryInfo {
	result := make([]EntryInfo, len(stack))
	for i, e := range stack {
		result[len(stack)-1-i] = EntryInfo{
			Description: e.command.Description(),
			Timestamp:   e.timestamp,
		}
	}
	return result
}

// notifyPre dispatches a pre-apply notification. Dispatch happens outside
// the stack mutex; the re-entrancy guard is still held.
func (m *Manager) notifyPre(n Notification) {
	for _, fn := range m.applyListeners(true) {
		fn(n)
	}
}

// notifyPost dispatches a post-apply notification, same locking rules as
// notifyPre.
func (m *Manager) notifyPost(n Notification) {
	for _, fn := range m.applyListeners(false) {
		fn(n)
	}
}

// notifyChanged dispatches state-changed notifications. The re-entrancy
// guard has been released by the time these run.
func (m *Manager) notifyChanged() {
	m.listenerMu.RLock()
	listeners := make([]StateListener, len(m.changed))
	copy(listeners, m.changed)
	m.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func (m *Manager) applyListeners(pre bool) []ApplyListener {
	m.listenerMu.RLock()
	defer m.listenerMu.RUnlock()

	src := m.postApply
	if pre {
		src = m.preApply
	}
	listeners := make([]ApplyListener, len(src))
	copy(listeners, src)
	return listeners
}

// nopLogger discards everything; it keeps the hot path free of nil checks.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
