package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/mcncl/lsjson/internal/config"
	"github.com/mcncl/lsjson/internal/errors"
	"github.com/mcncl/lsjson/internal/formatter"
	"github.com/mcncl/lsjson/internal/models"
	"github.com/mcncl/lsjson/internal/parser"
	"github.com/mcncl/lsjson/internal/printer"
)

// CLI defines the command-line interface
var CLI struct {
	Path    string `arg:"" optional:"" help:"Path to the JSON file. If not specified, reads piped JSON from stdin."`
	Example bool   `help:"Show one example for each part of the structure." short:"e" xor:"mode"`
	All     bool   `help:"Dump the structure and all the content." short:"a" xor:"mode"`
	Config  string `help:"Path to a YAML or TOML config file. Defaults to the nearest .lsjson.yml or .lsjson.toml." short:"c" type:"path"`
	NoColor bool   `help:"Disable ANSI colors." name:"no-color"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	Version bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger

	Stdin  io.Reader
	Stdout io.Writer
	// Terminal reports whether Stdout is a terminal, for color "auto".
	Terminal bool
}

// Version information
const (
	Version = "3.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("lsjson"),
		kong.Description("Show the structure of a JSON file"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(errors.ExitUsage)
	}

	if CLI.Version {
		fmt.Printf("lsjson version %s\n", Version)
		return
	}

	cfg, err := config.LoadConfigWithCLI(CLI.Config, cliMode(), CLI.NoColor, CLI.Debug)
	if err != nil {
		reportError(config.NewConfig(), err)
		os.Exit(errors.ExitCode(err))
	}

	ctx := &Context{
		Debug:    cfg.Dev.Debug,
		Config:   cfg,
		Logger:   newLogger(os.Stderr, cfg.Dev.Debug),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Terminal: !color.NoColor,
	}

	if err := run(ctx); err != nil {
		reportError(cfg, err)
		if stderrors.Is(err, errors.ErrNoInput) {
			_ = kctx.PrintUsage(false)
		}
		os.Exit(errors.ExitCode(err))
	}
}

// reportError prints a short, red message for err on stderr
func reportError(cfg *config.Config, err error) {
	msg := errors.UserFriendlyError(err)
	if cfg.UseColor(!color.NoColor) {
		msg = formatter.Colorize(msg, formatter.KindList)
	}
	fmt.Fprintln(os.Stderr, msg)
}

// cliMode returns the mode requested by flags, empty when none was given
func cliMode() string {
	switch {
	case CLI.All:
		return config.ModeAll
	case CLI.Example:
		return config.ModeExample
	default:
		return ""
	}
}

// newLogger creates a stderr logger; debug output is enabled with --debug
func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "lsjson",
	})
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = log.Default()
	}

	mode, err := printer.ModeFromName(cfg.DefaultMode)
	if err != nil {
		return err
	}

	var stdinData []byte
	if CLI.Path == "" {
		piped, err := stdinPiped(ctx)
		if err != nil {
			return err
		}
		if !piped {
			return errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		// An empty pipe is a missing argument, not a malformed document.
		stdinData, err = io.ReadAll(ctx.Stdin)
		if err != nil {
			return errors.NewInputError("failed to read from stdin", err)
		}
		if strings.TrimSpace(string(stdinData)) == "" {
			return errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	p := printer.NewPrinterWithConfig(ctx.Stdout, cfg, ctx.Terminal)

	source := CLI.Path
	if source == "" {
		source = "<stdin>"
	}
	// The banner goes out before parsing, so a missing or malformed file
	// still shows which path was tried.
	if cfg.Banner {
		if err := p.Line("=> lsjson "+source, formatter.KindExample); err != nil {
			return err
		}
	}

	start := time.Now()
	doc, err := parseInput(stdinData)
	if err != nil {
		return err
	}
	logger.Debug("parsed document", "source", doc.Source, "kind", doc.Root.Kind, "size", doc.Root.Len(), "elapsed", time.Since(start).Round(time.Microsecond))

	start = time.Now()
	if err := p.Print(doc.Root, 0, mode); err != nil {
		return err
	}
	logger.Debug("rendered document", "mode", mode, "elapsed", time.Since(start).Round(time.Microsecond))
	return nil
}

// parseInput parses the file argument, or stdinData when no path was given
func parseInput(stdinData []byte) (models.Document, error) {
	if CLI.Path != "" {
		return parser.ParseFile(CLI.Path)
	}

	doc, err := parser.ParseString(string(stdinData))
	if err != nil {
		return models.Document{}, err
	}
	doc.Source = "<stdin>"
	return doc, nil
}

// stdinPiped reports whether stdin can supply a document; a terminal on
// stdin means nothing was piped in.
func stdinPiped(ctx *Context) (bool, error) {
	if ctx.Stdin == nil {
		return false, nil
	}
	f, ok := ctx.Stdin.(*os.File)
	if !ok {
		return true, nil
	}
	stdinInfo, err := f.Stat()
	if err != nil {
		return false, errors.NewInputError("failed to access stdin", err)
	}
	return (stdinInfo.Mode() & os.ModeCharDevice) == 0, nil
}
