// Package report renders parse failures for people: one paragraph per
// grammar with a caret under the failing column, followed by hints.
// Messages are available in English and Chinese.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/mcncl/devkit/internal/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales
var localeFS embed.FS

// DefaultLang is used when no supported language matches.
var DefaultLang = language.English

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

type catalog struct {
	Title      string            `yaml:"title"`
	Grammars   map[string]string `yaml:"grammars"`
	Position   string            `yaml:"position"`
	HintsTitle string            `yaml:"hints_title"`
	Hints      []string          `yaml:"hints"`
	Messages   map[string]string `yaml:"messages"`
}

var catalogs = map[language.Tag]*catalog{}

func init() {
	for _, tag := range supported {
		data, err := localeFS.ReadFile("locales/" + tag.String() + ".yaml")
		if err != nil {
			panic(err)
		}
		c := &catalog{}
		if err := yaml.Unmarshal(data, c); err != nil {
			panic(fmt.Sprintf("locale %s: %v", tag, err))
		}
		catalogs[tag] = c
	}
}

// Reporter renders messages in one language.
type Reporter struct {
	lang language.Tag
	cat  *catalog
}

// New creates a Reporter for locale, e.g. "en", "zh-CN" or "zh_CN.UTF-8".
// "auto" and "" read the locale from the environment.
func New(locale string) *Reporter {
	if locale == "" || strings.EqualFold(locale, "auto") {
		locale = EnvLocale()
	}
	lang := Match(locale)
	return &Reporter{lang: lang, cat: catalogs[lang]}
}

// Match maps a locale string onto a supported language.
func Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return DefaultLang
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLang
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLang
	}
	return supported[index]
}

// EnvLocale returns the first locale set in LC_ALL, LC_MESSAGES or LANG.
func EnvLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Lang returns the language messages are rendered in.
func (r *Reporter) Lang() language.Tag {
	return r.lang
}

// Message returns a short fixed message such as "empty" or "valid".
func (r *Reporter) Message(key string) string {
	if msg, ok := r.cat.Messages[key]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLang].Messages[key]; ok {
		return msg
	}
	return key
}

// Caret returns column-1 spaces followed by "^".
func Caret(column int) string {
	if column < 1 {
		column = 1
	}
	return strings.Repeat(" ", column-1) + "^"
}

// Composite renders every grammar failure followed by the remediation hints.
func (r *Reporter) Composite(err *errors.CompositeParseError) string {
	var sb strings.Builder
	sb.WriteString(r.cat.Title)
	for _, pe := range err.Errors {
		sb.WriteString("\n\n")
		sb.WriteString(r.ParseError(pe))
	}
	sb.WriteString("\n\n")
	sb.WriteString(r.Hints())
	return sb.String()
}

// ParseError renders one grammar failure with its location and caret.
func (r *Reporter) ParseError(pe *errors.ParseError) string {
	label, ok := r.cat.Grammars[string(pe.Grammar)]
	if !ok {
		label = string(pe.Grammar)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", label, pe.Message)
	sb.WriteString(render(r.cat.Position, pe))
	sb.WriteByte('\n')
	sb.WriteString(pe.SourceLine)
	sb.WriteByte('\n')
	sb.WriteString(Caret(pe.Column))
	return sb.String()
}

// Hints renders the fixed checklist shown after a failure.
func (r *Reporter) Hints() string {
	var sb strings.Builder
	sb.WriteString(r.cat.HintsTitle)
	for _, hint := range r.cat.Hints {
		sb.WriteString("\n• ")
		sb.WriteString(hint)
	}
	return sb.String()
}

func render(text string, data any) string {
	tmpl, err := template.New("msg").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// Composite renders err in the language matched by locale.
func Composite(err *errors.CompositeParseError, locale string) string {
	return New(locale).Composite(err)
}
