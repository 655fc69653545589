package track

import (
	"fmt"

	"github.com/dshills/wavestorm/internal/engine/history"
)

// SetParamCommand changes a named track parameter, recording the old and
// new values. Temporally adjacent parameter changes on the same track and
// parameter merge into one history entry when the later command picks up
// exactly where this one left off.
type SetParamCommand struct {
	track  *Track
	param  string
	oldVal float64
	newVal float64
}

// NewSetParamCommand captures the parameter's current value as the
// undo target and value as the forward target.
func NewSetParamCommand(t *Track, param string, value float64) *SetParamCommand {
	return &SetParamCommand{
		track:  t,
		param:  param,
		oldVal: t.Param(param),
		newVal: value,
	}
}

// Execute applies the new parameter value.
func (c *SetParamCommand) Execute() error {
	c.track.SetParam(c.param, c.newVal)
	return nil
}

// Undo restores the recorded old value.
func (c *SetParamCommand) Undo() error {
	c.track.SetParam(c.param, c.oldVal)
	return nil
}

// Description returns a human-readable description.
func (c *SetParamCommand) Description() string {
	return fmt.Sprintf("Set %s %s to %.2f", c.track.Name(), c.param, c.newVal)
}

// CanMergeWith reports whether other is a later change to the same
// parameter whose starting value equals this command's ending value.
func (c *SetParamCommand) CanMergeWith(other history.Command) bool {
	o, ok := other.(*SetParamCommand)
	return ok && o.track == c.track && o.param == c.param && o.oldVal == c.newVal
}

// MergeWith absorbs the later command's new value in place and returns the
// receiver as the replacement entry.
func (c *SetParamCommand) MergeWith(other history.Command) (history.Command, error) {
	o, ok := other.(*SetParamCommand)
	if !ok {
		return nil, fmt.Errorf("merge %T into SetParamCommand: incompatible command", other)
	}
	c.newVal = o.newVal
	return c, nil
}

// AddClipCommand appends a clip to a track.
type AddClipCommand struct {
	track *Track
	clip  Clip
}

// NewAddClipCommand creates a command that appends clip to t.
func NewAddClipCommand(t *Track, clip Clip) *AddClipCommand {
	return &AddClipCommand{track: t, clip: clip}
}

// Execute appends the clip.
func (c *AddClipCommand) Execute() error {
	c.track.Append(c.clip)
	return nil
}

// Undo removes the clip by value.
func (c *AddClipCommand) Undo() error {
	if !c.track.Remove(c.clip) {
		return fmt.Errorf("undo add %s: clip not found on %s", c.clip, c.track.Name())
	}
	return nil
}

// Description returns a human-readable description.
func (c *AddClipCommand) Description() string {
	return fmt.Sprintf("Add clip %s to %s", c.clip.Name, c.track.Name())
}

// RemoveClipCommand removes the clip at an index, recording the original
// position so undo can reinsert it where it was.
type RemoveClipCommand struct {
	track *Track
	index int
	clip  Clip
}

// NewRemoveClipCommand creates a command that removes the clip at index.
func NewRemoveClipCommand(t *Track, index int) *RemoveClipCommand {
	return &RemoveClipCommand{track: t, index: index}
}

// Execute removes the clip, recording it for undo.
func (c *RemoveClipCommand) Execute() error {
	clip, err := c.track.RemoveAt(c.index)
	if err != nil {
		return err
	}
	c.clip = clip
	return nil
}

// Undo reinserts the removed clip at its original index, falling back to
// appending when the index no longer fits the sequence.
func (c *RemoveClipCommand) Undo() error {
	if c.index <= c.track.Len() {
		return c.track.InsertAt(c.index, c.clip)
	}
	c.track.Append(c.clip)
	return nil
}

// Description returns a human-readable description.
func (c *RemoveClipCommand) Description() string {
	return fmt.Sprintf("Remove clip %d from %s", c.index, c.track.Name())
}

// MoveClipCommand moves a clip between indexes, recording both ends so undo
// is the symmetric move.
type MoveClipCommand struct {
	track *Track
	from  int
	to    int
}

// NewMoveClipCommand creates a command that moves the clip at from to to.
func NewMoveClipCommand(t *Track, from, to int) *MoveClipCommand {
	return &MoveClipCommand{track: t, from: from, to: to}
}

// Execute performs the forward move.
func (c *MoveClipCommand) Execute() error {
	return c.track.Move(c.from, c.to)
}

// Undo performs the reverse move.
func (c *MoveClipCommand) Undo() error {
	return c.track.Move(c.to, c.from)
}

// Description returns a human-readable description.
func (c *MoveClipCommand) Description() string {
	return fmt.Sprintf("Move clip %d to %d on %s", c.from, c.to, c.track.Name())
}
