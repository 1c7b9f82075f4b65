package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mcncl/devkit/internal/config"
	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/fileio"
	"github.com/mcncl/devkit/internal/formatter"
	"github.com/mcncl/devkit/internal/jsontool"
	"github.com/mcncl/devkit/internal/log"
	"github.com/mcncl/devkit/internal/parser"
	"github.com/mcncl/devkit/internal/report"
	"go.uber.org/zap"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Globals

	Format    FormatCmd    `cmd:"" help:"Pretty-print JSON or Python literal input in canonical form."`
	Compress  CompressCmd  `cmd:"" help:"Print the compact canonical form."`
	Validate  ValidateCmd  `cmd:"" help:"Check that the input parses."`
	Tree      TreeCmd      `cmd:"" help:"Show the parsed document as an outline."`
	Timestamp TimestampCmd `cmd:"" help:"Convert between Unix timestamps and dates."`
}

// Globals are flags shared by every command
type Globals struct {
	Config  string           `help:"Path to a config file. Defaults to the nearest .devkit.yml." type:"path" env:"DEVKIT_CONFIG"`
	Debug   bool             `help:"Enable debug logging." short:"d" env:"DEVKIT_DEBUG"`
	Locale  string           `help:"Message language: auto, en or zh." env:"DEVKIT_LOCALE"`
	Repair  bool             `help:"Try to repair damaged JSON when the other grammars fail."`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// App holds the runtime context handed to every command
type App struct {
	Globals  Globals
	Config   *config.Config
	Reporter *report.Reporter
	Logger   *zap.SugaredLogger

	ctx         context.Context
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
	prompt      func(message string) (string, error)
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, stdinIsTerminal())
	stop()
	log.Sync()
	os.Exit(code)
}

// run parses args, runs the selected command and returns the exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, interactive bool) int {
	var cli CLI
	k, err := kong.New(&cli,
		kong.Name("devkit"),
		kong.Description("Developer toolkit: tolerant JSON formatter, validator, tree view and timestamp converter."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": Version},
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	kctx, err := k.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "\nFor help, run: devkit --help\n")
		return 1
	}

	app := &App{
		Globals:     cli.Globals,
		Reporter:    report.New(cli.Locale),
		Logger:      log.NewSugar("devkit"),
		ctx:         ctx,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		interactive: interactive,
		prompt:      surveyPrompt,
	}
	return app.report(kctx.Run(app))
}

// Setup loads the configuration, applies flag overrides and configures
// logging and the message language.
func (a *App) Setup(overrides config.CLIOverrides) error {
	path := a.Globals.Config
	if path == "" {
		path = config.FindConfigFile("")
	}

	overrides.Locale = a.Globals.Locale
	overrides.Debug = a.Globals.Debug
	if a.Globals.Repair {
		repair := true
		overrides.Repair = &repair
	}

	cfg, err := config.LoadConfigWithCLI(path, overrides)
	if err != nil {
		return errors.NewConfigError(err.Error(), err)
	}
	a.Config = cfg
	a.Reporter = report.New(cfg.Locale)

	if err := log.Init(log.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, Filename: cfg.Log.File}); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to initialise logging: %v", err), err)
	}
	a.Logger = log.NewSugar("devkit")
	a.Logger.Debugw("configuration loaded", "path", path, "locale", a.Reporter.Lang().String())
	return nil
}

// Tool builds a jsontool with the configured grammars and the given formatter settings
func (a *App) Tool(opts formatter.Options) *jsontool.Tool {
	var parserOpts []parser.Option
	if a.Config.Parser.Repair {
		parserOpts = append(parserOpts, parser.WithRepair())
	}
	return jsontool.NewTool(
		jsontool.WithFormatterOptions(opts),
		jsontool.WithParserOptions(parserOpts...),
		jsontool.WithLogger(log.NewSugar("jsontool")),
	)
}

// readInput reads from the file at path, piped stdin or an editor prompt
func (a *App) readInput(path string) (string, error) {
	if path != "" {
		return fileio.Open(path)
	}
	if a.interactive {
		return a.prompt("Enter JSON (the result is read when the editor closes)")
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	return string(data), nil
}

// emit writes text to stdout or the output file and copies it if asked
func (a *App) emit(out OutputFlags, text string) error {
	if out.Output != "" {
		if err := fileio.Save(out.Output, text); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "Output written to %s\n", out.Output)
	} else if _, err := fmt.Fprintln(a.stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}

	if out.Copy {
		a.copy(text)
	}
	return nil
}

func (a *App) copy(text string) {
	if fileio.Copy(text) {
		fmt.Fprintln(a.stderr, a.Reporter.Message("copied"))
		return
	}
	fmt.Fprintln(a.stderr, a.Reporter.Message("copy_failed"))
}

// process reads the input and hands it to action. With --watch it keeps
// re-running action on every change until the context is cancelled.
func (a *App) process(in InputFlags, action func(text string) error) error {
	step := func() error {
		text, err := a.readInput(in.Input)
		if err != nil {
			return err
		}
		return action(text)
	}
	if !in.Watch {
		return step()
	}

	if in.Input == "" {
		return errors.NewInputError("--watch needs an input file given with -i", errors.ErrNoInput)
	}
	watcher, err := fileio.NewWatcher(in.Input, fileio.DefaultDebounce, a.Logger)
	if err != nil {
		return errors.NewIOError("failed to watch input", err)
	}

	// Failures are reported and watching continues.
	reportStep := func() error {
		err := step()
		if err != nil {
			a.report(err)
		}
		return err
	}
	_ = reportStep()
	return watcher.Watch(a.ctx, reportStep)
}

// report prints err for people and returns the exit code
func (a *App) report(err error) int {
	if err == nil {
		return 0
	}

	var composite *errors.CompositeParseError
	switch {
	case errors.IsEmptyInput(err):
		fmt.Fprintln(a.stderr, a.Reporter.Message("empty"))
	case stderrors.As(err, &composite):
		fmt.Fprintln(a.stderr, a.Reporter.Composite(composite))
	default:
		fmt.Fprintln(a.stderr, errors.UserFriendlyError(err))
	}
	return 1
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func surveyPrompt(message string) (string, error) {
	var out string
	prompt := &survey.Editor{
		Message:  message,
		FileName: "*.json",
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if stderrors.Is(err, terminal.InterruptErr) {
			return "", errors.NewInputError("input cancelled", errors.ErrNoInput)
		}
		return "", errors.NewInputError("failed to read input", err)
	}
	return out, nil
}
