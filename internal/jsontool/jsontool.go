// Package jsontool exposes the format, compress and validate operations on
// top of the tolerant parser and the canonical formatter.
package jsontool

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/formatter"
	"github.com/mcncl/devkit/internal/log"
	"github.com/mcncl/devkit/internal/models"
	"github.com/mcncl/devkit/internal/parser"
	"go.uber.org/zap"
)

// Result is the outcome of Format or Compress.
type Result struct {
	Output string
	Root   models.JSONValue
	// Grammar names the grammar that accepted the input.
	Grammar string
}

// Tool runs requests with fixed parser and formatter settings.
// It holds no per-request state and is safe for concurrent use.
type Tool struct {
	parser    *parser.Parser
	formatter *formatter.Formatter
	logger    *zap.SugaredLogger
}

// Option configures a Tool.
type Option func(*Tool)

// WithFormatterOptions replaces the canonical formatter settings.
func WithFormatterOptions(opts formatter.Options) Option {
	return func(t *Tool) {
		t.formatter = formatter.NewFormatterWithOptions(opts)
	}
}

// WithParserOptions configures the grammar candidates.
func WithParserOptions(opts ...parser.Option) Option {
	return func(t *Tool) {
		t.parser = parser.NewParser(opts...)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(t *Tool) {
		t.logger = logger
	}
}

// NewTool creates a Tool with the canonical formatter and the strict then
// loose grammars.
func NewTool(opts ...Option) *Tool {
	t := &Tool{
		parser:    parser.NewParser(),
		formatter: formatter.NewFormatter(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.NewSugar("jsontool")
	}
	return t
}

// Parse parses text without serializing it.
func (t *Tool) Parse(text string) (models.Document, error) {
	return t.parse("parse", text)
}

// Format returns the pretty canonical form of text.
func (t *Tool) Format(text string) (Result, error) {
	return t.run("format", text, t.formatter.Pretty)
}

// Compress returns the compact canonical form of text.
func (t *Tool) Compress(text string) (Result, error) {
	return t.run("compress", text, t.formatter.Compact)
}

// Validate reports whether any grammar accepts text.
func (t *Tool) Validate(text string) error {
	_, err := t.parse("validate", text)
	return err
}

func (t *Tool) run(op, text string, render func(models.JSONValue) (string, error)) (Result, error) {
	doc, err := t.parse(op, text)
	if err != nil {
		return Result{}, err
	}
	out, err := render(doc.Root)
	if err != nil {
		return Result{}, errors.NewFormatError("failed to serialize document", err)
	}
	return Result{Output: out, Root: doc.Root, Grammar: doc.Grammar}, nil
}

func (t *Tool) parse(op, text string) (models.Document, error) {
	logger := t.logger.With("op", op, "request", uuid.NewString())
	start := time.Now()

	doc, err := t.parser.ParseString(text)
	if err != nil {
		logger.Debugw("parse failed", "bytes", len(text), "error", err)
		return models.Document{}, err
	}
	logger.Debugw("parsed", "bytes", len(text), "grammar", doc.Grammar, "elapsed", time.Since(start))
	return doc, nil
}
