package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/mcncl/devkit/internal/errors"
)

// locate converts a byte offset into a 1-based line and column and returns
// the text of the line containing it. Columns count runes.
func locate(text string, offset int) (line, column int, sourceLine string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	line = 1
	start := 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			start = i + 1
		}
	}

	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += start
	}

	sourceLine = strings.TrimSuffix(text[start:end], "\r")
	column = utf8.RuneCountInString(text[start:offset]) + 1
	return line, column, sourceLine
}

// runeOffset returns the byte offset of the n-th rune of text.
func runeOffset(text string, n int) int {
	if n <= 0 {
		return 0
	}
	count := 0
	for i := range text {
		if count == n {
			return i
		}
		count++
	}
	return len(text)
}

// endOfContent is the offset just past the last non-whitespace byte.
func endOfContent(text string) int {
	return len(strings.TrimRight(text, " \t\r\n"))
}

func newParseError(grammar errors.Grammar, text, message string, offset int) *errors.ParseError {
	line, column, sourceLine := locate(text, offset)
	return &errors.ParseError{
		Grammar:    grammar,
		Message:    message,
		Line:       line,
		Column:     column,
		SourceLine: sourceLine,
	}
}
