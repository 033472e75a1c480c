package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout renders a timestamp the way ParseTimestamp reads it.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

const (
	dateTimeLayout = "2006-01-02T15:04:05"
	offsetLen      = len("+00:00")
	maxFracDigits  = 6
)

// ErrTimestampShape is returned for input that is not
// YYYY-MM-DDTHH:MM:SS.ffffff±HH:MM.
var ErrTimestampShape = errors.New("timestamp must look like 2006-01-02T15:04:05.000000+07:00")

// ParseTimestamp reads an ISO 8601 date/time with microseconds and a
// trailing ±HH:MM offset. The offset is cut from the last six characters
// and attached to the wall time as a fixed zone.
func ParseTimestamp(raw string) (time.Time, error) {
	if len(raw) <= offsetLen {
		return time.Time{}, ErrTimestampShape
	}
	body, suffix := raw[:len(raw)-offsetLen], raw[len(raw)-offsetLen:]

	offset, err := parseOffset(suffix)
	if err != nil {
		return time.Time{}, err
	}

	dot := strings.LastIndexByte(body, '.')
	if dot < 0 {
		return time.Time{}, fmt.Errorf("%w: missing fractional seconds", ErrTimestampShape)
	}
	head, frac := body[:dot], body[dot+1:]
	if strings.ContainsRune(head, '.') {
		return time.Time{}, ErrTimestampShape
	}
	if len(frac) == 0 || len(frac) > maxFracDigits || !allDigits(frac) {
		return time.Time{}, fmt.Errorf("%w: fractional seconds %q", ErrTimestampShape, frac)
	}
	base, err := time.Parse(dateTimeLayout, head)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrTimestampShape, err)
	}
	micros, _ := strconv.Atoi(frac + strings.Repeat("0", maxFracDigits-len(frac)))

	return time.Date(base.Year(), base.Month(), base.Day(),
		base.Hour(), base.Minute(), base.Second(), micros*1000,
		time.FixedZone("", offset)), nil
}

// parseOffset turns "±HH:MM" into signed seconds east of UTC.
func parseOffset(s string) (int, error) {
	if len(s) != offsetLen || s[3] != ':' {
		return 0, fmt.Errorf("%w: offset %q", ErrTimestampShape, s)
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: offset %q", ErrTimestampShape, s)
	}
	hh, mm := s[1:3], s[4:6]
	if !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("%w: offset %q", ErrTimestampShape, s)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return sign * (h*3600 + m*60), nil
}

// FormatTimestamp is the inverse of ParseTimestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
