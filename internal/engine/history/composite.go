package history

import "fmt"

// Composite groups multiple commands as one atomic history entry.
// Forward operations (Execute, Redo) apply children in insertion order;
// Undo applies children in strictly reverse order. Composites are never
// merge candidates.
type Composite struct {
	name     string
	commands []Command
}

// NewComposite creates a composite with the given description and children.
func NewComposite(name string, commands ...Command) *Composite {
	return &Composite{
		name:     name,
		commands: commands,
	}
}

// Execute runs all children in order. If a child fails, children that
// already ran are undone in reverse order before the error propagates, so
// a composite never leaves partial forward state behind.
func (c *Composite) Execute() error {
	for i, cmd := range c.commands {
		if err := cmd.Execute(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.commands[j].Undo()
			}
			return fmt.Errorf("composite %q step %d: %w", c.name, i, err)
		}
	}
	return nil
}

// Undo reverses all children in reverse order. A child failure propagates
// immediately; children already reverted stay reverted and the caller must
// inspect and recover.
func (c *Composite) Undo() error {
	for i := len(c.commands) - 1; i >= 0; i-- {
		if err := c.commands[i].Undo(); err != nil {
			return fmt.Errorf("undo composite %q step %d: %w", c.name, i, err)
		}
	}
	return nil
}

// Redo reapplies all children in order. As with Execute, a child failure
// rolls back the children that already reapplied.
func (c *Composite) Redo() error {
	for i, cmd := range c.commands {
		if err := redoCommand(cmd); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.commands[j].Undo()
			}
			return fmt.Errorf("redo composite %q step %d: %w", c.name, i, err)
		}
	}
	return nil
}

// Description returns the composite's name, falling back to the single
// child's description or a count.
func (c *Composite) Description() string {
	if c.name != "" {
		return c.name
	}
	if len(c.commands) == 1 {
		return c.commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.commands))
}

// Add appends a command to the composite.
func (c *Composite) Add(cmd Command) {
	c.commands = append(c.commands, cmd)
}

// Len returns the number of child commands.
func (c *Composite) Len() int {
	return len(c.commands)
}

// IsEmpty returns true if the composite has no commands.
func (c *Composite) IsEmpty() bool {
	return len(c.commands) == 0
}
