// Package main is the entry point for the Wavestorm session console.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/wavestorm/internal/app"
	"github.com/dshills/wavestorm/internal/config"
	"github.com/dshills/wavestorm/internal/engine/track"
	"github.com/dshills/wavestorm/internal/macro"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

var errQuit = errors.New("quit")

func main() {
	os.Exit(run())
}

func run() int {
	opts, initConfig, showVersion := parseFlags()

	if showVersion {
		fmt.Printf("wavestorm %s (%s)\n", version, commit)
		return 0
	}

	if initConfig != "" {
		if err := config.WriteDefault(initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("wrote default configuration to %s\n", initConfig)
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
		os.Exit(0)
	}()

	console := &console{
		app:    application,
		macros: macro.NewRunner(application),
	}
	if err := console.loop(os.Stdin); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, string, bool) {
	var opts app.Options
	var initConfig string
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.IntVar(&opts.MaxHistory, "max-history", 0, "Undo history bound (overrides config)")
	flag.StringVar(&initConfig, "init-config", "", "Write a default configuration file and exit")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	return opts, initConfig, showVersion
}

// console is a line-oriented edit surface over the application. It exists
// for driving and debugging the engine; a real front end subscribes to the
// bus instead.
type console struct {
	app    *app.Application
	macros *macro.Runner
}

func (c *console) loop(input *os.File) error {
	fmt.Printf("wavestorm session %q (type 'help' for commands)\n", c.app.SessionName())

	scanner := bufio.NewScanner(input)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := c.dispatch(strings.Fields(line)); err != nil {
			if errors.Is(err, errQuit) {
				return err
			}
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (c *console) dispatch(args []string) error {
	switch args[0] {
	case "help":
		c.printHelp()
		return nil
	case "quit", "exit":
		return errQuit
	case "add":
		return c.addClip(args[1:])
	case "rm":
		return c.removeClip(args[1:])
	case "mv":
		return c.moveClip(args[1:])
	case "set":
		return c.setParam(args[1:])
	case "undo":
		if err := c.app.Undo(); err != nil {
			return err
		}
		fmt.Println("undone")
		return nil
	case "redo":
		if err := c.app.Redo(); err != nil {
			return err
		}
		fmt.Println("redone")
		return nil
	case "history":
		c.printHistory()
		return nil
	case "tracks":
		c.printTracks()
		return nil
	case "clear":
		return c.app.ClearHistory()
	case "macro":
		if len(args) != 2 {
			return errors.New("usage: macro <file.lua>")
		}
		return c.macros.RunFile(args[1])
	default:
		return fmt.Errorf("unknown command %q (try 'help')", args[0])
	}
}

func (c *console) addClip(args []string) error {
	if len(args) != 4 {
		return errors.New("usage: add <track> <clip> <start> <length>")
	}
	start, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	length, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("length: %w", err)
	}
	t := c.app.Track(args[0])
	clip := track.Clip{Name: args[1], Start: start, Length: length}
	return c.app.Submit(track.NewAddClipCommand(t, clip))
}

func (c *console) removeClip(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: rm <track> <index>")
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return c.app.Submit(track.NewRemoveClipCommand(c.app.Track(args[0]), index))
}

func (c *console) moveClip(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: mv <track> <from> <to>")
	}
	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	return c.app.Submit(track.NewMoveClipCommand(c.app.Track(args[0]), from, to))
}

func (c *console) setParam(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: set <track> <param> <value>")
	}
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	return c.app.Submit(track.NewSetParamCommand(c.app.Track(args[0]), args[1], value))
}

func (c *console) printHistory() {
	h := c.app.History()
	fmt.Printf("undo (%d):\n", h.UndoCount())
	for _, info := range h.UndoList() {
		fmt.Printf("  %s  %s\n", info.Timestamp.Format("15:04:05"), info.Description)
	}
	fmt.Printf("redo (%d):\n", h.RedoCount())
	for _, info := range h.RedoList() {
		fmt.Printf("  %s  %s\n", info.Timestamp.Format("15:04:05"), info.Description)
	}
}

func (c *console) printTracks() {
	for _, name := range c.app.TrackNames() {
		t := c.app.Track(name)
		fmt.Printf("%s (%d clips)\n", name, t.Len())
		for i, clip := range t.Clips() {
			fmt.Printf("  [%d] %s\n", i, clip)
		}
	}
}

func (c *console) printHelp() {
	fmt.Print(`commands:
  add <track> <clip> <start> <length>  add a clip
  rm <track> <index>                   remove a clip
  mv <track> <from> <to>               move a clip
  set <track> <param> <value>          set a track parameter
  undo / redo                          walk the history
  history                              show undo/redo stacks
  tracks                               show session tracks
  clear                                clear history
  macro <file.lua>                     run a Lua macro as one undo entry
  quit                                 exit
`)
}
