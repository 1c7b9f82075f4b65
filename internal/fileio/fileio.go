// Package fileio reads and writes the text buffers of the toolkit and
// places results on the system clipboard.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/mcncl/devkit/internal/errors"
)

// Filter is a named file-name pattern offered when choosing files.
type Filter struct {
	Name    string
	Pattern string
}

// Filters are the default file filters, most specific first.
var Filters = []Filter{
	{Name: "JSON files", Pattern: "*.json"},
	{Name: "Text files", Pattern: "*.txt"},
	{Name: "All files", Pattern: "*"},
}

// MatchFilter returns the first filter whose pattern matches the base name of path.
func MatchFilter(path string, filters []Filter) (Filter, bool) {
	base := filepath.Base(path)
	for _, f := range filters {
		if ok, err := filepath.Match(f.Pattern, base); err == nil && ok {
			return f, true
		}
	}
	return Filter{}, false
}

// Open reads the UTF-8 text file at path.
func Open(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return "", errors.NewIOError(fmt.Sprintf("failed to open file '%s'", path), err)
	}
	if !utf8.Valid(data) {
		return "", errors.NewIOError(fmt.Sprintf("failed to open file '%s'", path), errors.ErrInvalidUTF8)
	}
	return string(data), nil
}

// Save writes content to path verbatim.
func Save(path, content string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	return nil
}

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// Copy places text on the system clipboard and reports whether it worked.
func Copy(text string) bool {
	return clipboardWrite(text) == nil
}
