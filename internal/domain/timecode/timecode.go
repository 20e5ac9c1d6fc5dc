// Package timecode converts between HH:MM:SS text and millisecond offsets.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Zero is the text form of a zero offset.
const Zero = "00:00:00"

// ErrInvalid is returned by ParseStrict for text that is not a valid HH:MM:SS value.
var ErrInvalid = errors.New("invalid time code")

// Parse converts HH:MM:SS text to milliseconds.
// Malformed text (wrong field count, non-integer field, empty string) yields 0.
func Parse(text string) int64 {
	h, m, s, err := split(text)
	if err != nil {
		return 0
	}
	return ((h*60+m)*60 + s) * 1000
}

// ParseStrict converts HH:MM:SS text to milliseconds and reports malformed input.
// Unlike Parse it also rejects negative fields and minutes/seconds above 59.
func ParseStrict(text string) (int64, error) {
	h, m, s, err := split(text)
	if err != nil {
		return 0, err
	}
	if h < 0 || m < 0 || s < 0 || m > 59 || s > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalid, text)
	}
	return ((h*60+m)*60 + s) * 1000, nil
}

// Valid reports whether text is accepted by ParseStrict.
func Valid(text string) bool {
	_, err := ParseStrict(text)
	return err == nil
}

// Format renders milliseconds as zero-padded HH:MM:SS.
// The sub-second part is truncated; hours are not capped at two digits.
func Format(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func split(text string) (h, m, s int64, err error) {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q needs 3 fields", ErrInvalid, text)
	}

	var fields [3]int64
	for i, p := range parts {
		v, perr := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q has non-integer field", ErrInvalid, text)
		}
		fields[i] = v
	}
	return fields[0], fields[1], fields[2], nil
}
