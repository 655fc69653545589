package history

import "sync/atomic"

// Batch states. A batch starts Open and finalizes exactly once, as either
// Committed or Cancelled.
const (
	batchOpen int32 = iota
	batchCommitted
	batchCancelled
)

// Batch accumulates executed commands into a single atomic undo entry.
// Commands run immediately through Execute; the manager's stacks are not
// touched until Commit hands the accumulated composite over as one entry.
// Cancel undoes everything accumulated so far without ever exposing it to
// the manager.
//
// A batch is single-use and bound to the manager that created it. It is
// intended for a single caller; concurrent Execute calls on one batch are
// not synchronized. Finalization itself is atomic, so a deferred Close
// racing an explicit Commit resolves to exactly one commit.
type Batch struct {
	manager   *Manager
	composite *Composite
	state     atomic.Int32
}

// Execute applies the command immediately and appends it to the batch.
// Valid only while the batch is open.
func (b *Batch) Execute(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if b.state.Load() != batchOpen {
		return ErrBatchFinalized
	}
	if err := cmd.Execute(); err != nil {
		return err
	}
	b.composite.Add(cmd)
	return nil
}

// Commit finalizes the batch and pushes the accumulated composite onto the
// manager's undo stack as one atomic entry. Committing an already-committed
// batch is a no-op; committing an empty batch pushes nothing.
func (b *Batch) Commit() error {
	if !b.state.CompareAndSwap(batchOpen, batchCommitted) {
		if b.state.Load() == batchCommitted {
			return nil
		}
		return ErrBatchFinalized
	}
	b.manager.pushComposite(b.composite)
	return nil
}

// Cancel undoes all accumulated commands in reverse order and finalizes the
// batch without touching the manager's stacks. Valid only before commit.
func (b *Batch) Cancel() error {
	if !b.state.CompareAndSwap(batchOpen, batchCancelled) {
		if b.state.Load() == batchCommitted {
			return ErrBatchCommitted
		}
		return ErrBatchFinalized
	}
	return b.composite.Undo()
}

// Close commits the batch if it is still open. It is safe to defer
// unconditionally: a batch that was already committed or cancelled is left
// alone, so every opened batch resolves to exactly one terminal state.
func (b *Batch) Close() error {
	if b.state.Load() != batchOpen {
		return nil
	}
	return b.Commit()
}

// IsOpen returns true if the batch still accepts commands.
func (b *Batch) IsOpen() bool {
	return b.state.Load() == batchOpen
}

// Len returns the number of commands accumulated so far.
func (b *Batch) Len() int {
	return b.composite.Len()
}

// Description returns the batch's description.
func (b *Batch) Description() string {
	return b.composite.Description()
}
