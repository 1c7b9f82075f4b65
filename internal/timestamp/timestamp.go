// Package timestamp converts between Unix timestamps and wall-clock text.
package timestamp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mcncl/devkit/internal/errors"
)

// Unit is the resolution of a Unix timestamp.
type Unit string

const (
	Seconds      Unit = "s"
	Milliseconds Unit = "ms"
)

// OutputLayout is the layout ToDateTime produces.
const OutputLayout = "2006-01-02 15:04:05"

// millisThreshold separates second timestamps from millisecond ones.
const millisThreshold = 10_000_000_000

// Layouts are the inputs ToUnix accepts, tried in order. Every field but
// the year takes one or two digits, so 2024-1-2 3:4:5 and 2024-01-02
// 03:04:05 both match.
var Layouts = []string{
	"2006-1-2 15:4:5",
	"2006-1-2 15:4",
	"2006-1-2",
	"2006/1/2 15:4:5",
	"2006/1/2 15:4",
	"2006/1/2",
}

var now = time.Now

// ParseUnit accepts "s", "ms" and their long names. Empty means seconds.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "s", "sec", "seconds":
		return Seconds, nil
	case "ms", "millis", "milliseconds":
		return Milliseconds, nil
	default:
		return "", errors.NewTimestampError(fmt.Sprintf("unknown unit %q", s), nil)
	}
}

// Now returns the current Unix time in unit.
func Now(unit Unit) int64 {
	t := now()
	if unit == Milliseconds {
		return t.UnixMilli()
	}
	return t.Unix()
}

// ToDateTime renders a decimal timestamp in loc. Values above 10^10 are
// taken as milliseconds.
func ToDateTime(input string, loc *time.Location) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.NewInputError("timestamp is empty", errors.ErrEmptyInput)
	}
	value, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return "", errors.NewTimestampError(fmt.Sprintf("%q is not a number", input), errors.ErrInvalidNumber)
	}
	if value > millisThreshold {
		value /= 1000
	}

	sec, frac := math.Modf(value)
	if sec > math.MaxInt64/2 || sec < math.MinInt64/2 {
		return "", errors.NewTimestampError(fmt.Sprintf("%s is out of range", input), errors.ErrOutOfRange)
	}
	t := time.Unix(int64(sec), int64(frac*1e9)).In(locOrLocal(loc))
	if t.Year() < 1 || t.Year() > 9999 {
		return "", errors.NewTimestampError(fmt.Sprintf("%s is out of range", input), errors.ErrOutOfRange)
	}
	return t.Format(OutputLayout), nil
}

// ToUnix parses input with the first matching layout in Layouts and returns
// its Unix time in unit.
func ToUnix(input string, unit Unit, loc *time.Location) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errors.NewInputError("date/time is empty", errors.ErrEmptyInput)
	}
	for _, layout := range Layouts {
		t, err := time.ParseInLocation(layout, input, locOrLocal(loc))
		if err != nil {
			continue
		}
		if unit == Milliseconds {
			return t.Unix() * 1000, nil
		}
		return t.Unix(), nil
	}
	return 0, errors.NewTimestampError(
		fmt.Sprintf("cannot parse %q, supported layouts: %s", input, strings.Join(Layouts, ", ")),
		errors.ErrUnknownLayout)
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
