// Package events defines the typed payloads and topics published on the
// bus by engine components.
package events

import "github.com/dshills/wavestorm/internal/event"

// History topics.
const (
	// TopicHistoryExecuted fires after a command is executed and recorded.
	TopicHistoryExecuted event.Topic = "history.executed"

	// TopicHistoryUndone fires after an entry is undone.
	TopicHistoryUndone event.Topic = "history.undone"

	// TopicHistoryRedone fires after an entry is redone.
	TopicHistoryRedone event.Topic = "history.redone"

	// TopicHistoryChanged fires whenever the undo/redo stacks change.
	TopicHistoryChanged event.Topic = "history.changed"
)

// HistoryApplied is the payload for executed/undone/redone topics.
type HistoryApplied struct {
	// Op is the operation kind: "execute", "undo", or "redo".
	Op string

	// Description is the affected command's description.
	Description string
}

// HistoryChanged is the payload for TopicHistoryChanged. It is a snapshot
// taken when the notification was produced; the live stacks may have moved
// on by the time an async handler observes it.
type HistoryChanged struct {
	CanUndo   bool
	CanRedo   bool
	UndoCount int
	RedoCount int
}
