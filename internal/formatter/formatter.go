package formatter

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/devkit/internal/models"
)

// Key case transforms accepted by Options.KeyCase.
const (
	KeyCaseNone       = ""
	KeyCaseSnake      = "snake"
	KeyCaseCamel      = "camel"
	KeyCaseLowerCamel = "lower_camel"
	KeyCaseKebab      = "kebab"
)

var keyCases = map[string]func(string) string{
	KeyCaseSnake:      strcase.ToSnake,
	KeyCaseCamel:      strcase.ToCamel,
	KeyCaseLowerCamel: strcase.ToLowerCamel,
	KeyCaseKebab:      strcase.ToKebab,
}

// Options controls the canonical output.
type Options struct {
	// Indent is the number of spaces per nesting level in pretty output.
	Indent int
	// SortKeys orders object keys lexicographically at every level.
	// When false keys keep their input order.
	SortKeys bool
	// EnsureASCII escapes every non-ASCII character as \uXXXX.
	EnsureASCII bool
	// KeyCase renames object keys before output; empty leaves them alone.
	KeyCase string
}

// DefaultOptions returns the canonical settings: 4-space indent, sorted
// keys and non-ASCII text kept literally.
func DefaultOptions() Options {
	return Options{
		Indent:   4,
		SortKeys: true,
	}
}

// Formatter serializes parsed values into deterministic text.
type Formatter struct {
	opts Options
}

// NewFormatter creates a Formatter with the canonical settings.
func NewFormatter() *Formatter {
	return &Formatter{opts: DefaultOptions()}
}

// NewFormatterWithOptions creates a Formatter with custom settings.
func NewFormatterWithOptions(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Options returns the formatter settings.
func (f *Formatter) Options() Options {
	return f.opts
}

// Pretty renders v with one key or element per line.
func (f *Formatter) Pretty(v models.JSONValue) (string, error) {
	return f.render(v, true)
}

// Compact renders v without insignificant whitespace.
func (f *Formatter) Compact(v models.JSONValue) (string, error) {
	return f.render(v, false)
}

func (f *Formatter) render(v models.JSONValue, pretty bool) (string, error) {
	if v == nil {
		return "", fmt.Errorf("nothing to format")
	}
	if f.opts.Indent < 0 {
		return "", fmt.Errorf("invalid indent %d", f.opts.Indent)
	}
	if f.opts.KeyCase != KeyCaseNone {
		convert, ok := keyCases[f.opts.KeyCase]
		if !ok {
			return "", fmt.Errorf("unknown key case %q", f.opts.KeyCase)
		}
		v = RenameKeys(v, convert)
	}

	w := &writer{opts: f.opts, pretty: pretty}
	if err := w.value(v, 0); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

// RenameKeys returns a copy of v with every object key passed through
// convert. When two keys collide the later one wins.
func RenameKeys(v models.JSONValue, convert func(string) string) models.JSONValue {
	switch t := v.(type) {
	case models.JSONArray:
		out := make(models.JSONArray, len(t))
		for i, item := range t {
			out[i] = RenameKeys(item, convert)
		}
		return out
	case *models.JSONObject:
		out := models.NewObject()
		for _, key := range t.Keys() {
			child, _ := t.Get(key)
			out.Set(convert(key), RenameKeys(child, convert))
		}
		return out
	default:
		return v
	}
}

type writer struct {
	sb     strings.Builder
	opts   Options
	pretty bool
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.sb.WriteByte('\n')
	w.sb.WriteString(strings.Repeat(" ", depth*w.opts.Indent))
}

func (w *writer) value(v models.JSONValue, depth int) error {
	switch t := v.(type) {
	case models.JSONNull:
		w.sb.WriteString("null")
	case models.JSONBool:
		if t {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case models.JSONNumber:
		if t == "" {
			return fmt.Errorf("empty number")
		}
		w.sb.WriteString(string(t))
	case models.JSONString:
		writeString(&w.sb, string(t), w.opts.EnsureASCII)
	case models.JSONArray:
		if len(t) == 0 {
			w.sb.WriteString("[]")
			return nil
		}
		w.sb.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.value(item, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.sb.WriteByte(']')
	case *models.JSONObject:
		if t.Len() == 0 {
			w.sb.WriteString("{}")
			return nil
		}
		keys := t.Keys()
		if w.opts.SortKeys {
			keys = t.SortedKeys()
		}
		w.sb.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.newline(depth + 1)
			writeString(&w.sb, key, w.opts.EnsureASCII)
			w.sb.WriteByte(':')
			if w.pretty {
				w.sb.WriteByte(' ')
			}
			child, _ := t.Get(key)
			if err := w.value(child, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.sb.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// writeString quotes s. Only quotes, backslashes and control characters
// are escaped unless ensureASCII is set.
func writeString(sb *strings.Builder, s string, ensureASCII bool) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				writeUnicodeEscape(sb, r)
			case ensureASCII && r > 0x7f:
				if r > 0xffff {
					r -= 0x10000
					writeUnicodeEscape(sb, 0xd800+(r>>10))
					writeUnicodeEscape(sb, 0xdc00+(r&0x3ff))
				} else {
					writeUnicodeEscape(sb, r)
				}
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

func writeUnicodeEscape(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hexDigits[(r>>12)&0xf])
	sb.WriteByte(hexDigits[(r>>8)&0xf])
	sb.WriteByte(hexDigits[(r>>4)&0xf])
	sb.WriteByte(hexDigits[r&0xf])
}
