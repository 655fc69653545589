package history

// Command represents a reversible edit that can be executed and undone.
// Once a command is submitted to a Manager (or a Batch), the history owns
// its stack entry; the manager never inspects command state, it only calls
// the contract methods and stores opaque references.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute() error

	// Undo reverses exactly what the matching Execute (or Redo) did.
	Undo() error

	// Description returns a human-readable description of the command.
	// It must be pure and stable for the command's lifetime.
	Description() string
}

// Redoer is implemented by commands whose redo differs from re-executing.
// Commands without specialized redo behavior are redone by calling Execute.
type Redoer interface {
	// Redo reapplies the command's forward effect.
	Redo() error
}

// Merger is implemented by commands that can be compacted with a later
// command targeting the same logical state. Commands that do not implement
// Merger are never merge candidates.
//
// A merge is legal only when the later command's recorded starting state is
// exactly this command's ending state, so the merged command's Undo still
// restores the true original state and its Execute reaches the true final
// state.
type Merger interface {
	// CanMergeWith reports whether this command can absorb other.
	// It must be a pure predicate and must not mutate either command.
	CanMergeWith(other Command) bool

	// MergeWith combines this command with other and returns the command
	// representing the combined effect. It may mutate the receiver and
	// return it; the caller treats the return value as the authoritative
	// replacement. Only called when CanMergeWith(other) holds.
	MergeWith(other Command) (Command, error)
}

// redoCommand reapplies a command's forward effect, preferring the
// specialized Redo when the command provides one.
func redoCommand(cmd Command) error {
	if r, ok := cmd.(Redoer); ok {
		return r.Redo()
	}
	return cmd.Execute()
}
