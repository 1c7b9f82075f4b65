package report

import (
	"strings"
	"testing"

	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"en", language.English},
		{"en_US.UTF-8", language.English},
		{"zh", language.Chinese},
		{"zh_CN.UTF-8", language.Chinese},
		{"C", language.English},
		{"POSIX", language.English},
		{"", language.English},
		{"fr_FR", language.English},
		{"!!", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.locale))
		})
	}
}

func TestNewAuto(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")
	assert.Equal(t, language.Chinese, New("auto").Lang())
	assert.Equal(t, language.Chinese, New("").Lang())

	t.Setenv("LC_ALL", "en_GB.UTF-8")
	assert.Equal(t, language.English, New("auto").Lang())
}

func TestCaret(t *testing.T) {
	assert.Equal(t, "^", Caret(1))
	assert.Equal(t, "    ^", Caret(5))
	assert.Equal(t, "^", Caret(0))
}

func TestCompositeEnglish(t *testing.T) {
	_, err := parser.ParseString("{a: }")
	var composite *errors.CompositeParseError
	require.ErrorAs(t, err, &composite)

	out := Composite(composite, "en")
	lines := strings.Split(out, "\n")

	assert.Equal(t, "Unable to parse the input. The following problems were found:", lines[0])
	assert.Contains(t, out, "JSON format error: ")
	assert.Contains(t, out, "Literal format error: ")
	assert.Contains(t, out, "Position: line 1, column 2:\n{a: }\n ^")
	assert.Contains(t, out, "Position: line 1, column 5:\n{a: }\n    ^")
	assert.True(t, strings.HasSuffix(out, "• there are no trailing commas"))
	assert.Less(t, strings.Index(out, "JSON format error"), strings.Index(out, "Literal format error"))
}

func TestCompositeChinese(t *testing.T) {
	composite := &errors.CompositeParseError{Errors: []*errors.ParseError{
		{Grammar: errors.GrammarStrict, Message: "bad", Line: 2, Column: 3, SourceLine: "  x"},
	}}

	out := Composite(composite, "zh_CN")

	assert.True(t, strings.HasPrefix(out, "无法解析输入内容"))
	assert.Contains(t, out, "JSON格式错误: bad\n位置: 第2行，第3列:\n  x\n  ^")
	assert.Contains(t, out, "建议检查:\n• 括号、引号是否配对")
}

func TestParseErrorUnknownGrammar(t *testing.T) {
	r := New("en")
	out := r.ParseError(&errors.ParseError{Grammar: "custom", Message: "nope", Line: 1, Column: 1, SourceLine: "x"})
	assert.Equal(t, "custom: nope\nPosition: line 1, column 1:\nx\n^", out)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Please enter JSON content.", New("en").Message("empty"))
	assert.Equal(t, "请输入JSON内容", New("zh").Message("empty"))
	assert.Equal(t, "missing", New("zh").Message("missing"))
}
