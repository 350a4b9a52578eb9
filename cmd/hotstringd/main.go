// hotstringd - System-wide text expansion daemon
//
//	hotstringd run              Run the expansion daemon
//	hotstringd check <file>     Parse a definitions file and report problems
//	hotstringd stats            Show the most-used hotstrings
//	hotstringd version          Print the version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"hotstringd/internal/config"
	"hotstringd/internal/expander"
	"hotstringd/internal/hotjson"
	"hotstringd/internal/hotstring"
	"hotstringd/internal/keyboard"
	"hotstringd/internal/logging"
	"hotstringd/internal/notify"
	"hotstringd/internal/script"
	"hotstringd/internal/store"
	"hotstringd/internal/watcher"
)

var version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		cmdRun()
	case "check":
		cmdCheck()
	case "stats":
		cmdStats()
	case "version":
		fmt.Println("hotstringd " + version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`hotstringd - System-wide text expansion daemon

USAGE:
    hotstringd <command> [options]

COMMANDS:
    run                 Run the expansion daemon
    check <file>        Parse a definitions file and report problems
    stats               Show the most-used hotstrings
    version             Print the version
    help                Show this help message

The daemon reads abbreviations from a definitions file (AutoHotkey-style
.ahk script or JSON), watches your keyboard, and replaces each typed
abbreviation with its expansion. It needs read access to /dev/input and
write access to /dev/uinput (typically: membership in the 'input' group).`)
}

// loadConfig reads the config file named by -config, or the default path
// when the flag is empty and the default file exists. config.Load applies
// environment overrides and validation itself; only the built-in defaults
// need them here.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
		if _, err := os.Stat(path); err != nil {
			cfg := config.Default()
			cfg.ApplyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}
	return config.Load(path)
}

// loadDefinitions parses a definitions file. format is "ahk", "json", or
// "auto", which decides by file extension (unknown extensions are treated
// as script files).
func loadDefinitions(path, format string) ([]hotstring.Definition, hotstring.Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, hotstring.Options{}, err
	}
	defer f.Close()
	return parseDefinitions(f, path, format)
}

func parseDefinitions(r io.Reader, path, format string) ([]hotstring.Definition, hotstring.Options, error) {
	if format == "" || format == "auto" {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "json"
		} else {
			format = "ahk"
		}
	}
	switch format {
	case "json":
		return hotjson.Parse(r)
	case "ahk":
		return script.Parse(r)
	default:
		return nil, hotstring.Options{}, fmt.Errorf("unknown definitions format %q", format)
	}
}

func buildDetector(path, format string) (*hotstring.Detector, int, error) {
	defs, opts, err := loadDefinitions(path, format)
	if err != nil {
		return nil, 0, err
	}
	reg, err := hotstring.Build(defs)
	if err != nil {
		return nil, 0, err
	}
	return hotstring.New(reg, opts), reg.Len(), nil
}

func cmdRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default: "+config.DefaultConfigPath()+")")
	defsPath := fs.String("defs", "", "definitions file (overrides config)")
	verbose := fs.Bool("verbose", false, "log at debug level")
	fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal("loading config: %v", err)
	}
	if *defsPath != "" {
		cfg.Definitions.Path = *defsPath
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(&logging.Config{
		Level:     mustLevel(cfg.Logging.Level),
		Format:    mustFormat(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "hotstringd",
	})
	if err != nil {
		fatal("setting up logging: %v", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	if err := runDaemon(cfg); err != nil {
		logging.Error("daemon stopped", "error", err)
		os.Exit(1)
	}
}

func runDaemon(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	det, count, err := buildDetector(cfg.Definitions.Path, cfg.Definitions.Format)
	if err != nil {
		return fmt.Errorf("loading definitions: %w", err)
	}
	logging.Info("definitions loaded", "path", cfg.Definitions.Path, "hotstrings", count)

	typer, err := keyboard.NewTyper(time.Duration(cfg.Output.KeyDelayMs) * time.Millisecond)
	if err != nil {
		return fmt.Errorf("opening output device: %w", err)
	}
	defer typer.Close()

	capturer, err := keyboard.NewCapturer(cfg.Input.Device)
	if err != nil {
		return fmt.Errorf("opening input devices: %w", err)
	}
	defer capturer.Close()

	var stats expander.Recorder
	if cfg.Stats.Enabled {
		db, err := store.Open(cfg.Stats.Path)
		if err != nil {
			return fmt.Errorf("opening stats store: %w", err)
		}
		defer db.Close()
		stats = db
	}

	var notifier *notify.Notifier
	if cfg.Notifications.Enabled {
		notifier, err = notify.New()
		if err != nil {
			// The desktop bus being absent should not keep a
			// headless session from expanding.
			logging.Warn("desktop notifications unavailable", "error", err)
		} else {
			defer notifier.Close()
		}
	}

	proc := expander.New(det, typer, stats, notifierOrNil(notifier))

	if cfg.Definitions.Watch {
		w, err := watcher.New(cfg.Definitions.Path, func() {
			reload(proc, cfg, notifier)
		})
		if err != nil {
			return fmt.Errorf("watching definitions: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watching definitions: %w", err)
		}
		defer w.Close()
	}

	if err := capturer.Start(ctx); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}
	logging.Info("hotstringd running", "version", version)

	err = proc.Run(ctx, capturer.Events())
	if errors.Is(err, context.Canceled) {
		logging.Info("shutting down")
		return nil
	}
	return err
}

// reload rebuilds the detector from the changed definitions file. A file
// that no longer parses keeps the previous definitions active.
func reload(proc *expander.Processor, cfg *config.Config, notifier *notify.Notifier) {
	det, count, err := buildDetector(cfg.Definitions.Path, cfg.Definitions.Format)
	if err != nil {
		logging.Error("reload failed, keeping previous definitions", "error", err)
		if notifier != nil {
			notifier.Error("Hotstring reload failed", err.Error())
		}
		return
	}
	proc.Swap(det)
	logging.Info("definitions reloaded", "hotstrings", count)
	if notifier != nil {
		notifier.Info("Hotstrings reloaded", fmt.Sprintf("%d definitions active", count))
	}
}

// notifierOrNil keeps a typed nil out of the Notifier interface value.
func notifierOrNil(n *notify.Notifier) expander.Notifier {
	if n == nil {
		return nil
	}
	return n
}

func cmdCheck() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	format := fs.String("format", "auto", "definitions format: auto, ahk, or json")
	fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fatal("usage: hotstringd check [-format auto|ahk|json] <file>")
	}
	path := fs.Arg(0)

	defs, opts, err := loadDefinitions(path, *format)
	if err != nil {
		fatal("%s: %v", path, err)
	}
	if _, err := hotstring.Build(defs); err != nil {
		fatal("%s: %v", path, err)
	}
	fmt.Printf("%s: %d hotstrings, end characters %q\n", path, len(defs), opts.EndChars)
}

func cmdStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "", "config file")
	top := fs.Int("top", 20, "number of hotstrings to show")
	fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal("loading config: %v", err)
	}
	if !cfg.Stats.Enabled || cfg.Stats.Path == "" {
		fatal("statistics are not enabled; set [stats] enabled = true in %s", config.DefaultConfigPath())
	}

	db, err := store.Open(cfg.Stats.Path)
	if err != nil {
		fatal("opening stats store: %v", err)
	}
	defer db.Close()

	entries, err := db.Top(*top)
	if err != nil {
		fatal("reading stats: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No expansions recorded yet.")
		return
	}
	fmt.Printf("%-24s %8s  %s\n", "PATTERN", "FIRED", "LAST FIRED")
	for _, e := range entries {
		fmt.Printf("%-24s %8d  %s\n", e.Pattern, e.Fired, e.LastFired.Format(time.RFC3339))
	}
}

func mustLevel(s string) logging.Level {
	lvl, err := logging.ParseLevel(s)
	if err != nil {
		fatal("%v", err)
	}
	return lvl
}

func mustFormat(s string) logging.Format {
	f, err := logging.ParseFormat(s)
	if err != nil {
		fatal("%v", err)
	}
	return f
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
