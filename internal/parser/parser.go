package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/fileio"
	"github.com/mcncl/devkit/internal/models"
)

// GrammarFunc parses text under one grammar. Failures are returned as
// located ParseErrors, never panics.
type GrammarFunc func(text string) (models.JSONValue, *errors.ParseError)

type candidate struct {
	grammar errors.Grammar
	parse   GrammarFunc
}

// Parser tries an ordered list of grammars and returns the first success.
type Parser struct {
	candidates []candidate
}

// Option configures a Parser.
type Option func(*Parser)

// WithRepair appends the repair grammar after the strict and loose ones.
func WithRepair() Option {
	return func(p *Parser) {
		p.candidates = append(p.candidates, candidate{errors.GrammarRepair, ParseRepair})
	}
}

// WithGrammar appends a custom grammar to the candidate list.
func WithGrammar(name errors.Grammar, fn GrammarFunc) Option {
	return func(p *Parser) {
		p.candidates = append(p.candidates, candidate{name, fn})
	}
}

// NewParser creates a Parser that tries the strict grammar, then the loose one.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		candidates: []candidate{
			{errors.GrammarStrict, ParseStrict},
			{errors.GrammarLoose, ParseLoose},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grammars lists the grammars in the order they are tried.
func (p *Parser) Grammars() []errors.Grammar {
	names := make([]errors.Grammar, len(p.candidates))
	for i, c := range p.candidates {
		names[i] = c.grammar
	}
	return names
}

// ParseString parses text with each grammar in turn.
// Whitespace-only input returns ErrEmptyInput without trying any grammar.
// If every grammar fails the error is a *errors.CompositeParseError.
func (p *Parser) ParseString(text string) (models.Document, error) {
	if strings.TrimSpace(text) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}

	composite := &errors.CompositeParseError{}
	for _, c := range p.candidates {
		value, perr, err := c.try(text)
		if err != nil {
			return models.Document{}, err
		}
		if perr == nil {
			return models.Document{Root: value, Grammar: string(c.grammar)}, nil
		}
		composite.Errors = append(composite.Errors, perr)
	}
	return models.Document{}, composite
}

// try runs one grammar. A grammar that panics or returns neither a value
// nor an error is broken, and that is reported as a parsing error rather
// than as a syntax error in the input.
func (c candidate) try(text string) (value models.JSONValue, perr *errors.ParseError, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, perr = nil, nil
			err = errors.NewParsingError(fmt.Sprintf("grammar %q failed: %v", c.grammar, r), nil)
		}
	}()

	value, perr = c.parse(text)
	if value == nil && perr == nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("grammar %q returned no value", c.grammar), nil)
	}
	return value, perr, nil
}

// Parse reads all of reader and parses it.
func (p *Parser) Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	return p.ParseString(string(data))
}

// ParseFile parses the UTF-8 text file at path.
func (p *Parser) ParseFile(path string) (models.Document, error) {
	text, err := fileio.Open(path)
	if err != nil {
		return models.Document{}, err
	}
	doc, err := p.ParseString(text)
	if err != nil {
		if errors.IsEmptyInput(err) {
			return models.Document{}, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", path), errors.ErrEmptyInput)
		}
		return models.Document{}, err
	}
	return doc, nil
}

var defaultParser = NewParser()

// Parse reads all of reader and parses it with the strict then loose grammar.
func Parse(reader io.Reader) (models.Document, error) {
	return defaultParser.Parse(reader)
}

// ParseString parses text with the strict then loose grammar.
func ParseString(text string) (models.Document, error) {
	return defaultParser.ParseString(text)
}

// ParseFile parses the file at path with the strict then loose grammar.
func ParseFile(path string) (models.Document, error) {
	return defaultParser.ParseFile(path)
}
