package track

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned for clip indexes outside the sequence.
var ErrIndexOutOfRange = errors.New("clip index out of range")

// Clip is a placed region of audio or MIDI on a track. Positions and
// lengths are in beats. Clips are compared by value.
type Clip struct {
	Name   string
	Start  float64
	Length float64
}

// String returns a short display form of the clip.
func (c Clip) String() string {
	return fmt.Sprintf("%s @%.2f (%.2f beats)", c.Name, c.Start, c.Length)
}

// Track is an index-addressable mutable clip sequence plus named float64
// parameters (volume, pan, send levels, ...).
type Track struct {
	name   string
	clips  []Clip
	params map[string]float64
}

// New creates an empty track with the given name.
func New(name string) *Track {
	return &Track{
		name:   name,
		params: make(map[string]float64),
	}
}

// Name returns the track name.
func (t *Track) Name() string {
	return t.name
}

// Len returns the number of clips on the track.
func (t *Track) Len() int {
	return len(t.clips)
}

// ClipAt returns the clip at index i.
func (t *Track) ClipAt(i int) (Clip, error) {
	if i < 0 || i >= len(t.clips) {
		return Clip{}, fmt.Errorf("clip at %d: %w", i, ErrIndexOutOfRange)
	}
	return t.clips[i], nil
}

// Clips returns a copy of the clip sequence.
func (t *Track) Clips() []Clip {
	result := make([]Clip, len(t.clips))
	copy(result, t.clips)
	return result
}

// Append adds a clip to the end of the sequence.
func (t *Track) Append(c Clip) {
	t.clips = append(t.clips, c)
}

// InsertAt inserts a clip at index i, shifting later clips right.
// i may equal Len, which appends.
func (t *Track) InsertAt(i int, c Clip) error {
	if i < 0 || i > len(t.clips) {
		return fmt.Errorf("insert at %d: %w", i, ErrIndexOutOfRange)
	}
	t.clips = append(t.clips, Clip{})
	copy(t.clips[i+1:], t.clips[i:])
	t.clips[i] = c
	return nil
}

// RemoveAt removes and returns the clip at index i.
func (t *Track) RemoveAt(i int) (Clip, error) {
	if i < 0 || i >= len(t.clips) {
		return Clip{}, fmt.Errorf("remove at %d: %w", i, ErrIndexOutOfRange)
	}
	c := t.clips[i]
	t.clips = append(t.clips[:i], t.clips[i+1:]...)
	return c, nil
}

// Remove removes the first clip equal to c, returning false if absent.
func (t *Track) Remove(c Clip) bool {
	i := t.IndexOf(c)
	if i < 0 {
		return false
	}
	_, _ = t.RemoveAt(i)
	return true
}

// IndexOf returns the index of the first clip equal to c, or -1.
func (t *Track) IndexOf(c Clip) int {
	for i, existing := range t.clips {
		if existing == c {
			return i
		}
	}
	return -1
}

// Move removes the clip at from and reinserts it at to.
func (t *Track) Move(from, to int) error {
	if from < 0 || from >= len(t.clips) {
		return fmt.Errorf("move from %d: %w", from, ErrIndexOutOfRange)
	}
	if to < 0 || to >= len(t.clips) {
		return fmt.Errorf("move to %d: %w", to, ErrIndexOutOfRange)
	}
	c, err := t.RemoveAt(from)
	if err != nil {
		return err
	}
	return t.InsertAt(to, c)
}

// Param returns the value of a named parameter, zero if unset.
func (t *Track) Param(name string) float64 {
	return t.params[name]
}

// SetParam sets a named parameter.
func (t *Track) SetParam(name string, value float64) {
	t.params[name] = value
}
