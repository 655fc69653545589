package macro

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wavestorm/internal/engine/history"
	"github.com/dshills/wavestorm/internal/engine/track"
)

// ErrEmptyScript is returned when a macro has no content.
var ErrEmptyScript = errors.New("macro script is empty")

// Session is the edit surface a macro script drives.
type Session interface {
	// Track returns the named track, creating it on first use.
	Track(name string) *track.Track

	// BeginBatch opens a history batch for the script's edits.
	BeginBatch(description string) (*history.Batch, error)
}

// Runner executes Lua macros against a session.
type Runner struct {
	session Session
}

// NewRunner creates a macro runner bound to a session.
func NewRunner(s Session) *Runner {
	return &Runner{session: s}
}

// RunFile loads and runs the macro at path. The file's base name becomes
// the macro name shown in history.
func (r *Runner) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read macro %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r.Run(name, string(data))
}

// Run executes script as one atomic history entry. A script error cancels
// the batch, rolling back every edit the script already made.
func (r *Runner) Run(name, script string) error {
	if strings.TrimSpace(script) == "" {
		return ErrEmptyScript
	}

	batch, err := r.session.BeginBatch("Macro: " + name)
	if err != nil {
		return err
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSandboxedLibs(L)
	r.register(L, batch)

	if err := L.DoString(script); err != nil {
		if cancelErr := batch.Cancel(); cancelErr != nil {
			return fmt.Errorf("macro %q: %v (rollback failed: %w)", name, err, cancelErr)
		}
		return fmt.Errorf("macro %q: %w", name, err)
	}
	return batch.Commit()
}

// openSandboxedLibs opens only the side-effect-free standard libraries.
// io, os, debug, and package stay closed so scripts cannot leave the
// session.
func openSandboxedLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// register installs the wavestorm table. Mutating functions execute
// commands through the batch; read functions go straight to the track.
func (r *Runner) register(L *lua.LState, batch *history.Batch) {
	funcs := map[string]lua.LGFunction{
		"add_clip": func(L *lua.LState) int {
			t := r.session.Track(L.CheckString(1))
			clip := track.Clip{
				Name:   L.CheckString(2),
				Start:  float64(L.CheckNumber(3)),
				Length: float64(L.CheckNumber(4)),
			}
			r.execute(L, batch, track.NewAddClipCommand(t, clip))
			return 0
		},
		"remove_clip": func(L *lua.LState) int {
			t := r.session.Track(L.CheckString(1))
			index := L.CheckInt(2) - 1 // Lua is 1-based
			r.execute(L, batch, track.NewRemoveClipCommand(t, index))
			return 0
		},
		"move_clip": func(L *lua.LState) int {
			t := r.session.Track(L.CheckString(1))
			from := L.CheckInt(2) - 1
			to := L.CheckInt(3) - 1
			r.execute(L, batch, track.NewMoveClipCommand(t, from, to))
			return 0
		},
		"set_param": func(L *lua.LState) int {
			t := r.session.Track(L.CheckString(1))
			cmd := track.NewSetParamCommand(t, L.CheckString(2), float64(L.CheckNumber(3)))
			r.execute(L, batch, cmd)
			return 0
		},
		"clip_count": func(L *lua.LState) int {
			t := r.session.Track(L.CheckString(1))
			L.Push(lua.LNumber(t.Len()))
			return 1
		},
		"param": func(L *lua.LState) int {
			t := r.session.Track(L.CheckString(1))
			L.Push(lua.LNumber(t.Param(L.CheckString(2))))
			return 1
		},
	}

	module := L.SetFuncs(L.NewTable(), funcs)
	L.SetGlobal("wavestorm", module)
}

// execute runs a command through the batch, surfacing failures as Lua
// errors so the script aborts and triggers rollback.
func (r *Runner) execute(L *lua.LState, batch *history.Batch, cmd history.Command) {
	if err := batch.Execute(cmd); err != nil {
		L.RaiseError("%s: %v", cmd.Description(), err)
	}
}
