// Package history provides transactional undo/redo for the Wavestorm engine.
//
// The history system uses the Command pattern to encapsulate reversible
// edits to session state, enabling them to be executed, undone, redone,
// merged, and batched. Key concepts:
//
// # Commands
//
// Commands implement the Command interface with Execute, Undo, and
// Description methods. Optional behavior is declared through the Redoer
// and Merger interfaces: a command without Redo is redone by calling
// Execute again, and a command without merge support never merges.
//
// # History Manager
//
// The Manager owns two bounded LIFO stacks:
//
//	mgr, err := history.NewManager(1000) // Max 1000 undo entries
//
//	// Execute commands
//	err = mgr.Execute(cmd)
//
//	// Undo/redo
//	err = mgr.Undo()
//	err = mgr.Redo()
//
// Executing a new command clears the redo stack. When the undo stack
// exceeds its bound the oldest entries are discarded.
//
// # Merge Compaction
//
// When the command on top of the undo stack reports it can merge with a
// newly executed command, the two are compacted into one entry. This keeps
// repeated adjustments to a single parameter from flooding the history.
//
// # Batches
//
// A Batch groups several commands into one atomic undo entry:
//
//	batch, _ := mgr.BeginBatch("Quantize selection")
//	defer batch.Close() // commits if not already finalized
//	batch.Execute(cmd1)
//	batch.Execute(cmd2)
//
// Cancelling a batch undoes its commands in reverse order and leaves the
// manager's stacks untouched.
//
// # Re-entrancy
//
// Execute, Undo, Redo, and Clear fail fast with ErrReentrantCall while
// another such call is in progress on the same manager, whether the nested
// call comes from a command's own side effects or from another goroutine.
// State-changed notifications fire after the guard is released, so their
// handlers may safely call back into the manager.
package history
