package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/devkit/internal/config"
	"github.com/mcncl/devkit/internal/formatter"
	"github.com/mcncl/devkit/internal/jsontool"
	"github.com/mcncl/devkit/internal/timestamp"
	"github.com/mcncl/devkit/internal/tree"
)

// InputFlags select where a document comes from
type InputFlags struct {
	Input string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Watch bool   `help:"Run again every time the input file changes." short:"w"`
}

// OutputFlags select where a result goes
type OutputFlags struct {
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Copy   bool   `help:"Also copy the result to the clipboard." short:"c"`
}

// ShapeFlags override the formatting section of the config
type ShapeFlags struct {
	Indent  *int   `help:"Spaces per nesting level (pretty output only)."`
	KeyCase string `help:"Rename keys: snake, camel, lower_camel or kebab." name:"key-case"`
}

func (s ShapeFlags) overrides() config.CLIOverrides {
	return config.CLIOverrides{Indent: s.Indent, KeyCase: s.KeyCase}
}

// FormatCmd pretty-prints the input
type FormatCmd struct {
	InputFlags
	OutputFlags
	ShapeFlags
}

func (c *FormatCmd) Run(app *App) error {
	if err := app.Setup(c.overrides()); err != nil {
		return err
	}
	tool := app.Tool(app.Config.FormatterOptions())
	return app.process(c.InputFlags, func(text string) error {
		return app.emitResult(c.OutputFlags, text, tool.Format)
	})
}

// CompressCmd prints the compact form of the input
type CompressCmd struct {
	InputFlags
	OutputFlags
	ShapeFlags
}

func (c *CompressCmd) Run(app *App) error {
	if err := app.Setup(c.overrides()); err != nil {
		return err
	}
	tool := app.Tool(app.Config.FormatterOptions())
	return app.process(c.InputFlags, func(text string) error {
		return app.emitResult(c.OutputFlags, text, tool.Compress)
	})
}

func (a *App) emitResult(out OutputFlags, text string, op func(string) (jsontool.Result, error)) error {
	res, err := op(text)
	if err != nil {
		return err
	}
	a.Logger.Debugw("request done", "grammar", res.Grammar, "bytes", len(res.Output))
	return a.emit(out, res.Output)
}

// ValidateCmd checks that the input parses
type ValidateCmd struct {
	InputFlags
}

func (c *ValidateCmd) Run(app *App) error {
	if err := app.Setup(config.CLIOverrides{}); err != nil {
		return err
	}
	tool := app.Tool(formatter.DefaultOptions())
	return app.process(c.InputFlags, func(text string) error {
		if err := tool.Validate(text); err != nil {
			return err
		}
		fmt.Fprintln(app.stdout, app.Reporter.Message("valid"))
		return nil
	})
}

// TreeCmd prints the document as an outline
type TreeCmd struct {
	InputFlags
	Collapse bool `help:"Show only the top level."`
}

func (c *TreeCmd) Run(app *App) error {
	if err := app.Setup(config.CLIOverrides{}); err != nil {
		return err
	}
	tool := app.Tool(formatter.DefaultOptions())
	return app.process(c.InputFlags, func(text string) error {
		doc, err := tool.Parse(text)
		if err != nil {
			return err
		}
		if !doc.RootIsContainer() {
			fmt.Fprintln(app.stdout, tree.ValueText(doc.Root))
			return nil
		}
		t := tree.Build(doc.Root)
		if c.Collapse {
			t.CollapseAll()
		}
		return t.Render(app.stdout)
	})
}

// TimestampCmd groups the timestamp conversions
type TimestampCmd struct {
	Now    NowCmd    `cmd:"" help:"Print the current Unix timestamp."`
	ToDate ToDateCmd `cmd:"" help:"Convert a Unix timestamp to a date and time."`
	ToUnix ToUnixCmd `cmd:"" help:"Convert a date and time to a Unix timestamp."`
}

// TimeFlags override the timestamp section of the config
type TimeFlags struct {
	Unit     string `help:"Timestamp unit: s or ms." short:"u"`
	Location string `help:"Time zone name, e.g. UTC or Asia/Shanghai." short:"l"`
	Copy     bool   `help:"Also copy the result to the clipboard." short:"c"`
}

func (f TimeFlags) resolve(app *App) (timestamp.Unit, error) {
	if err := app.Setup(config.CLIOverrides{}); err != nil {
		return "", err
	}
	if f.Location != "" {
		app.Config.Timestamp.Location = f.Location
	}
	unit := app.Config.Timestamp.Unit
	if f.Unit != "" {
		unit = f.Unit
	}
	return timestamp.ParseUnit(unit)
}

func (f TimeFlags) emit(app *App, text string) error {
	return app.emit(OutputFlags{Copy: f.Copy}, text)
}

// NowCmd prints the current timestamp
type NowCmd struct {
	TimeFlags
}

func (c *NowCmd) Run(app *App) error {
	unit, err := c.resolve(app)
	if err != nil {
		return err
	}
	return c.emit(app, strconv.FormatInt(timestamp.Now(unit), 10))
}

// ToDateCmd converts a timestamp to a date
type ToDateCmd struct {
	TimeFlags
	Value string `arg:"" help:"Unix timestamp in seconds or milliseconds."`
}

func (c *ToDateCmd) Run(app *App) error {
	if _, err := c.resolve(app); err != nil {
		return err
	}
	loc, err := app.Config.Location()
	if err != nil {
		return err
	}
	text, err := timestamp.ToDateTime(c.Value, loc)
	if err != nil {
		return err
	}
	return c.emit(app, text)
}

// ToUnixCmd converts a date to a timestamp
type ToUnixCmd struct {
	TimeFlags
	Value []string `arg:"" help:"Date and time, e.g. 2024-01-02 15:04:05."`
}

func (c *ToUnixCmd) Run(app *App) error {
	unit, err := c.resolve(app)
	if err != nil {
		return err
	}
	loc, err := app.Config.Location()
	if err != nil {
		return err
	}
	ts, err := timestamp.ToUnix(strings.Join(c.Value, " "), unit, loc)
	if err != nil {
		return err
	}
	return c.emit(app, strconv.FormatInt(ts, 10))
}
