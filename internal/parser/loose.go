package parser

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/models"
)

// ParseLoose parses the permissive literal syntax commonly used for
// hand-written data: single- or double-quoted strings, bare or quoted keys,
// tuples, trailing commas, True/False/None and # or // comments.
func ParseLoose(text string) (models.JSONValue, *errors.ParseError) {
	p := &looseParser{src: text}
	value, err := p.parseDocument()
	if err != nil {
		return nil, newParseError(errors.GrammarLoose, text, err.msg, err.pos)
	}
	return value, nil
}

// maxDepth bounds container nesting so hostile input cannot exhaust the stack.
const maxDepth = 10000

type looseError struct {
	msg string
	pos int
}

type looseParser struct {
	src   string
	pos   int
	depth int
}

// enter records one more open container starting at open.
func (p *looseParser) enter(open int) *looseError {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf(open, "maximum nesting depth exceeded")
	}
	return nil
}

func (p *looseParser) leave() {
	p.depth--
}

func (p *looseParser) errorf(pos int, format string, args ...interface{}) *looseError {
	return &looseError{msg: fmt.Sprintf(format, args...), pos: pos}
}

func (p *looseParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *looseParser) peek() rune {
	if p.eof() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *looseParser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

func (p *looseParser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

// describe renders the character at pos for error messages.
func (p *looseParser) describe() string {
	if p.eof() {
		return "end of input"
	}
	return strconv.QuoteRune(p.peek())
}

// skipSpace skips whitespace and line comments.
func (p *looseParser) skipSpace() {
	for !p.eof() {
		switch {
		case p.hasPrefix("#"), p.hasPrefix("//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		case unicode.IsSpace(p.peek()):
			p.next()
		default:
			return
		}
	}
}

func (p *looseParser) parseDocument() (models.JSONValue, *looseError) {
	p.skipSpace()
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf(p.pos, "unexpected %s after value", p.describe())
	}
	return value, nil
}

func (p *looseParser) parseValue() (models.JSONValue, *looseError) {
	if p.eof() {
		return nil, p.errorf(p.pos, "expected a value, got end of input")
	}

	r := p.peek()
	switch {
	case r == '{':
		return p.parseObject()
	case r == '[':
		return p.parseList()
	case r == '(':
		return p.parseParen()
	case r == '"' || r == '\'':
		s, err := p.parseStrings(false)
		if err != nil {
			return nil, err
		}
		return models.JSONString(s), nil
	case r == '+' || r == '-' || r == '.' || isDigit(r):
		num, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return models.JSONNumber(num), nil
	case isIdentStart(r):
		return p.parseName()
	default:
		return nil, p.errorf(p.pos, "expected a value, got %s", p.describe())
	}
}

// parseName handles keywords and string prefixes in value position.
func (p *looseParser) parseName() (models.JSONValue, *looseError) {
	start := p.pos
	if raw, ok := p.stringPrefix(); ok {
		s, err := p.parseStrings(raw)
		if err != nil {
			return nil, err
		}
		return models.JSONString(s), nil
	}

	name := p.scanIdent()
	switch name {
	case "True", "true":
		return models.JSONBool(true), nil
	case "False", "false":
		return models.JSONBool(false), nil
	case "None", "null":
		return models.JSONNull{}, nil
	case "inf", "nan", "Infinity", "NaN":
		return nil, p.errorf(start, "non-finite number %q is not supported", name)
	default:
		return nil, p.errorf(start, "unknown name %q", name)
	}
}

// stringPrefix consumes a u/r prefix directly followed by a quote.
func (p *looseParser) stringPrefix() (raw bool, ok bool) {
	for _, prefix := range []string{"u", "U", "r", "R"} {
		if !p.hasPrefix(prefix) || len(p.src) <= p.pos+1 {
			continue
		}
		if q := p.src[p.pos+1]; q == '"' || q == '\'' {
			p.pos++
			return prefix == "r" || prefix == "R", true
		}
	}
	return false, false
}

func (p *looseParser) scanIdent() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.next()
	}
	return p.src[start:p.pos]
}

func (p *looseParser) parseObject() (models.JSONValue, *looseError) {
	open := p.pos
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next() // '{'
	obj := models.NewObject()

	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "'{' was never closed")
		}
		if p.peek() == '}' {
			p.next()
			return obj, nil
		}

		keyPos := p.pos
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "'{' was never closed")
		}
		if p.peek() != ':' {
			if obj.Len() == 0 && (p.peek() == ',' || p.peek() == '}') {
				return nil, p.errorf(keyPos, "set literals are not supported")
			}
			return nil, p.errorf(p.pos, "expected ':' after key %q, got %s", key, p.describe())
		}
		p.next()

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "'{' was never closed")
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "'{' was never closed")
		}
		switch p.peek() {
		case ',':
			p.next()
		case '}':
			p.next()
			return obj, nil
		default:
			return nil, p.errorf(p.pos, "expected ',' or '}', got %s", p.describe())
		}
	}
}

// parseKey reads a mapping key and returns its string form. Literal keys
// are converted the way JSON encoders convert them: 1 -> "1", True -> "true".
func (p *looseParser) parseKey() (string, *looseError) {
	r := p.peek()
	switch {
	case r == '"' || r == '\'':
		return p.parseStrings(false)
	case r == '+' || r == '-' || r == '.' || isDigit(r):
		return p.parseNumber()
	case isIdentStart(r):
		if raw, ok := p.stringPrefix(); ok {
			return p.parseStrings(raw)
		}
		name := p.scanIdent()
		switch name {
		case "True":
			return "true", nil
		case "False":
			return "false", nil
		case "None":
			return "null", nil
		}
		return name, nil
	default:
		return "", p.errorf(p.pos, "expected a key, got %s", p.describe())
	}
}

func (p *looseParser) parseList() (models.JSONValue, *looseError) {
	open := p.pos
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next() // '['
	return p.parseItems(open, '[', ']', models.JSONArray{})
}

// parseParen distinguishes a parenthesised value from a tuple.
func (p *looseParser) parseParen() (models.JSONValue, *looseError) {
	open := p.pos
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next() // '('

	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(open, "'(' was never closed")
	}
	if p.peek() == ')' {
		p.next()
		return models.JSONArray{}, nil
	}

	first, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(open, "'(' was never closed")
	}
	switch p.peek() {
	case ')':
		p.next()
		return first, nil
	case ',':
		p.next()
		return p.parseItems(open, '(', ')', models.JSONArray{first})
	default:
		return nil, p.errorf(p.pos, "expected ',' or ')', got %s", p.describe())
	}
}

func (p *looseParser) parseItems(open int, openCh, closeCh rune, items models.JSONArray) (models.JSONValue, *looseError) {
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "'%c' was never closed", openCh)
		}
		if p.peek() == closeCh {
			p.next()
			return items, nil
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, value)

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "'%c' was never closed", openCh)
		}
		switch p.peek() {
		case ',':
			p.next()
		case closeCh:
			p.next()
			return items, nil
		default:
			return nil, p.errorf(p.pos, "expected ',' or '%c', got %s", closeCh, p.describe())
		}
	}
}

// parseStrings reads one string literal and any adjacent literals, which
// are concatenated: 'ab' "cd" -> "abcd".
func (p *looseParser) parseStrings(raw bool) (string, *looseError) {
	var sb strings.Builder
	for {
		s, err := p.parseString(raw)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)

		save := p.pos
		p.skipSpace()
		if p.eof() {
			p.pos = save
			return sb.String(), nil
		}
		if r := p.peek(); r == '"' || r == '\'' {
			raw = false
			continue
		}
		if nextRaw, ok := p.stringPrefix(); ok {
			raw = nextRaw
			continue
		}
		p.pos = save
		return sb.String(), nil
	}
}

func (p *looseParser) parseString(raw bool) (string, *looseError) {
	open := p.pos
	quote := p.next()
	delim := string(quote)
	triple := p.hasPrefix(delim + delim)
	if triple {
		p.pos += 2
		delim = strings.Repeat(delim, 3)
	}

	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf(open, "unterminated string literal")
		}
		if p.hasPrefix(delim) {
			p.pos += len(delim)
			return sb.String(), nil
		}

		r := p.next()
		switch {
		case r == '\n' && !triple:
			return "", p.errorf(open, "unterminated string literal")
		case r == '\\' && raw:
			sb.WriteRune(r)
			if !p.eof() {
				sb.WriteRune(p.next())
			}
		case r == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteRune(r)
		}
	}
}

var simpleEscapes = map[rune]rune{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'/':  '/',
}

// parseEscape decodes the escape sequence following a backslash.
func (p *looseParser) parseEscape(sb *strings.Builder) *looseError {
	start := p.pos - 1
	if p.eof() {
		return p.errorf(start, "unterminated string literal")
	}

	r := p.next()
	if decoded, ok := simpleEscapes[r]; ok {
		sb.WriteRune(decoded)
		return nil
	}

	switch r {
	case '\n':
		// line continuation
		return nil
	case 'x':
		code, err := p.hexDigits(start, 2)
		if err != nil {
			return err
		}
		sb.WriteRune(rune(code))
	case 'u':
		code, err := p.hexDigits(start, 4)
		if err != nil {
			return err
		}
		sb.WriteRune(p.combineSurrogate(rune(code)))
	case 'U':
		code, err := p.hexDigits(start, 8)
		if err != nil {
			return err
		}
		if code > unicode.MaxRune {
			return p.errorf(start, "illegal Unicode character in \\U escape")
		}
		sb.WriteRune(rune(code))
	case '0', '1', '2', '3', '4', '5', '6', '7':
		code := int(r - '0')
		for i := 0; i < 2 && !p.eof() && p.peek() >= '0' && p.peek() <= '7'; i++ {
			code = code*8 + int(p.next()-'0')
		}
		sb.WriteRune(rune(code))
	default:
		// unknown escapes keep the backslash
		sb.WriteRune('\\')
		sb.WriteRune(r)
	}
	return nil
}

func (p *looseParser) hexDigits(start, n int) (int64, *looseError) {
	if len(p.src)-p.pos < n {
		return 0, p.errorf(start, "truncated \\%c escape", p.src[start+1])
	}
	digits := p.src[p.pos : p.pos+n]
	if strings.IndexFunc(digits, func(r rune) bool { return !isHexDigit(r) }) >= 0 {
		return 0, p.errorf(start, "truncated \\%c escape", p.src[start+1])
	}
	code, err := strconv.ParseInt(digits, 16, 64)
	if err != nil {
		return 0, p.errorf(start, "truncated \\%c escape", p.src[start+1])
	}
	p.pos += n
	return code, nil
}

// combineSurrogate joins a \uD8xx\uDCxx pair; lone surrogates become U+FFFD.
func (p *looseParser) combineSurrogate(high rune) rune {
	if high < 0xD800 || high > 0xDFFF {
		return high
	}
	if high <= 0xDBFF && p.hasPrefix(`\u`) && len(p.src)-p.pos >= 6 {
		if low, err := strconv.ParseInt(p.src[p.pos+2:p.pos+6], 16, 32); err == nil && low >= 0xDC00 && low <= 0xDFFF {
			p.pos += 6
			return (high-0xD800)<<10 + (rune(low) - 0xDC00) + 0x10000
		}
	}
	return unicode.ReplacementChar
}

// parseNumber reads a number literal and returns it in canonical JSON syntax.
func (p *looseParser) parseNumber() (string, *looseError) {
	start := p.pos
	negative := false
	if r := p.peek(); r == '+' || r == '-' {
		negative = r == '-'
		p.next()
		// a unary sign may be separated from its operand: - 1
		p.skipSpace()
	}

	if p.hasPrefix("0x") || p.hasPrefix("0X") || p.hasPrefix("0o") || p.hasPrefix("0O") || p.hasPrefix("0b") || p.hasPrefix("0B") {
		return p.parseRadixInt(start, negative)
	}

	intPart, ok := p.scanDigits()
	if !ok {
		return "", p.errorf(p.pos, "invalid decimal literal")
	}
	var fracPart, expPart string
	isFloat := false

	if p.peek() == '.' {
		isFloat = true
		p.next()
		if fracPart, ok = p.scanDigits(); !ok {
			return "", p.errorf(p.pos, "invalid decimal literal")
		}
	}
	if intPart == "" && fracPart == "" {
		return "", p.errorf(start, "expected a value, got %s", strconv.QuoteRune(rune(p.src[start])))
	}

	if r := p.peek(); r == 'e' || r == 'E' {
		isFloat = true
		expStart := p.pos
		p.next()
		sign := ""
		if r := p.peek(); r == '+' || r == '-' {
			sign = string(p.next())
		}
		digits, ok := p.scanDigits()
		if !ok || digits == "" {
			return "", p.errorf(expStart, "invalid exponent in number literal")
		}
		expPart = sign + digits
	}

	if r := p.peek(); r == 'j' || r == 'J' {
		return "", p.errorf(start, "complex numbers are not supported")
	}
	if !p.eof() && isIdentPart(p.peek()) {
		return "", p.errorf(p.pos, "invalid decimal literal")
	}

	if !isFloat {
		if len(intPart) > 1 && strings.Trim(intPart, "0") != "" && intPart[0] == '0' {
			return "", p.errorf(start, "leading zeros in decimal integer literals are not permitted")
		}
		return canonicalInt(negative, strings.TrimLeft(intPart, "0")), nil
	}

	literal := intPart
	if literal == "" {
		literal = "0"
	}
	if fracPart != "" {
		literal += "." + fracPart
	}
	if expPart != "" {
		literal += "e" + expPart
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(f, 0) {
		return "", p.errorf(start, "number out of range")
	}
	if negative {
		f = -f
	}
	return formatFloat(f), nil
}

// scanDigits reads decimal digits allowing single underscores between them.
func (p *looseParser) scanDigits() (string, bool) {
	var sb strings.Builder
	lastUnderscore := false
	for !p.eof() {
		r := p.peek()
		switch {
		case isDigit(r):
			sb.WriteRune(r)
			lastUnderscore = false
		case r == '_' && sb.Len() > 0 && !lastUnderscore:
			lastUnderscore = true
		default:
			return sb.String(), !lastUnderscore
		}
		p.next()
	}
	return sb.String(), !lastUnderscore
}

func (p *looseParser) parseRadixInt(start int, negative bool) (string, *looseError) {
	p.next() // '0'
	base := 16
	switch p.next() {
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	}

	digitsStart := p.pos
	for !p.eof() && (isIdentPart(p.peek())) {
		p.next()
	}
	digits := strings.ReplaceAll(p.src[digitsStart:p.pos], "_", "")
	n, ok := new(big.Int).SetString(digits, base)
	if !ok || digits == "" {
		return "", p.errorf(start, "invalid base-%d literal", base)
	}
	if negative {
		n.Neg(n)
	}
	return n.String(), nil
}

func canonicalInt(negative bool, digits string) string {
	if digits == "" {
		return "0"
	}
	if negative {
		return "-" + digits
	}
	return digits
}

// formatFloat renders f as the shortest round-tripping decimal, using
// exponent form outside [1e-4, 1e16) and always keeping a fractional part.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
