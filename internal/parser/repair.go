package parser

import (
	"regexp"
	"strconv"

	"github.com/kaptinlin/jsonrepair"
	"github.com/mcncl/devkit/internal/errors"
	"github.com/mcncl/devkit/internal/models"
)

var repairPosition = regexp.MustCompile(`position (\d+)`)

// ParseRepair fixes common damage (missing quotes or commas, truncated
// input, Python literals) and parses the result with the strict grammar.
func ParseRepair(text string) (models.JSONValue, *errors.ParseError) {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		// The repairer counts characters, not bytes.
		offset := 0
		if m := repairPosition.FindStringSubmatch(err.Error()); m != nil {
			if n, convErr := strconv.Atoi(m[1]); convErr == nil {
				offset = runeOffset(text, n)
			}
		}
		return nil, newParseError(errors.GrammarRepair, text, err.Error(), offset)
	}

	value, perr := ParseStrict(repaired)
	if perr != nil {
		return nil, newParseError(errors.GrammarRepair, text, "repaired text is still invalid: "+perr.Message, 0)
	}
	return value, nil
}
