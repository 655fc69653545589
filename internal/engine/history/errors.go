package history

import "errors"

// Sentinel errors for history operations.
var (
	// ErrNilCommand is returned when a nil command is submitted.
	ErrNilCommand = errors.New("command cannot be nil")

	// ErrEmptyDescription is returned when a batch is opened with an empty description.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrInvalidMaxEntries is returned when a manager is created with a non-positive bound.
	ErrInvalidMaxEntries = errors.New("max entries must be positive")

	// ErrReentrantCall is returned when Execute, Undo, Redo, or Clear is invoked
	// while another such call is already in progress on the same manager.
	ErrReentrantCall = errors.New("history operation already in progress")

	// ErrNothingToUndo is returned by Undo when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrBatchFinalized is returned when operating on a batch that has already
	// been committed or cancelled.
	ErrBatchFinalized = errors.New("batch already finalized")

	// ErrBatchCommitted is returned when cancelling a batch that has committed.
	ErrBatchCommitted = errors.New("batch already committed")
)
