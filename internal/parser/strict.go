package parser

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/models"
)

const unexpectedEnd = "unexpected end of JSON input"

// ParseStrict parses text as standard JSON: double-quoted strings, no
// trailing commas, no comments and exactly one root value.
func ParseStrict(text string) (models.JSONValue, *errors.ParseError) {
	data := []byte(text)

	// Validate the whole document first; the validator reports the byte
	// offset of the first offending character.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, strictError(text, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	value, err := decodeValue(decoder)
	if err != nil {
		return nil, strictError(text, err)
	}
	return value, nil
}

func strictError(text string, err error) *errors.ParseError {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		// Offset counts the bytes read including the offending one.
		offset := int(syntaxError.Offset) - 1
		if syntaxError.Error() == unexpectedEnd {
			offset = endOfContent(text)
		}
		return newParseError(errors.GrammarStrict, text, syntaxMessage(text, syntaxError.Error(), offset), offset)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return newParseError(errors.GrammarStrict, text, unexpectedEnd, endOfContent(text))
	}
	return newParseError(errors.GrammarStrict, text, err.Error(), 0)
}

// syntaxMessage replaces the single byte the decoder quotes with the whole
// character when the offending character is multi-byte UTF-8.
func syntaxMessage(text, msg string, offset int) string {
	if offset < 0 || offset >= len(text) || text[offset] < utf8.RuneSelf {
		return msg
	}
	r, _ := utf8.DecodeRuneInString(text[offset:])
	if r == utf8.RuneError {
		return msg
	}
	return strings.Replace(msg, quoteByte(text[offset]), strconv.QuoteRune(r), 1)
}

// quoteByte quotes c the way encoding/json does in syntax errors.
func quoteByte(c byte) string {
	s := strconv.Quote(string(rune(c)))
	return "'" + s[1:len(s)-1] + "'"
}

// decodeValue walks the token stream so that object keys keep their
// input order.
func decodeValue(decoder *json.Decoder) (models.JSONValue, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := models.NewObject()
			for decoder.More() {
				keyTok, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not a string", keyTok)
				}
				value, err := decodeValue(decoder)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			if _, err := decoder.Token(); err != nil { // closing '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := models.JSONArray{}
			for decoder.More() {
				value, err := decodeValue(decoder)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := decoder.Token(); err != nil { // closing ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return models.JSONString(t), nil
	case json.Number:
		return models.JSONNumber(t.String()), nil
	case bool:
		return models.JSONBool(t), nil
	case nil:
		return models.JSONNull{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}
