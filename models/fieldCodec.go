package models

import "strings"

// Field codec: pure conversions between persisted review fields and the
// editable form state. The editing surface works in strings (three-option
// selectors, date-only inputs); nothing here touches storage.

// TriState is an answer to an impact question: yes, no, or not answered.
type TriState int8

const (
	TriStateUnset TriState = iota
	TriStateTrue
	TriStateFalse
)

// ParseTriState decodes a form value. Anything outside the two recognized
// literals (including "") is Unset.
func ParseTriState(s string) TriState {
	switch s {
	case "true":
		return TriStateTrue
	case "false":
		return TriStateFalse
	default:
		return TriStateUnset
	}
}

func TriStateOf(b *bool) TriState {
	switch {
	case b == nil:
		return TriStateUnset
	case *b:
		return TriStateTrue
	default:
		return TriStateFalse
	}
}

func (t TriState) String() string {
	switch t {
	case TriStateTrue:
		return "true"
	case TriStateFalse:
		return "false"
	default:
		return ""
	}
}

func (t TriState) Bool() *bool {
	switch t {
	case TriStateTrue:
		v := true
		return &v
	case TriStateFalse:
		v := false
		return &v
	default:
		return nil
	}
}

// DecodeBool converts a persisted tri-state boolean to its form literal.
func DecodeBool(b *bool) string {
	return TriStateOf(b).String()
}

// EncodeBool converts a form literal back to a persisted tri-state boolean.
func EncodeBool(s string) *bool {
	return ParseTriState(s).Bool()
}

// DecodeDate truncates a persisted timestamp to its date-only prefix, e.g.
// "2025-12-16T15:30:00+00:00" -> "2025-12-16". The time-of-day is lost; the
// editing surface never exposes it.
func DecodeDate(s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	date, _, _ := strings.Cut(*s, "T")
	return date
}

// EncodeDate passes a non-empty date string through unchanged. Dates are
// calendar dates, not instants; no timezone conversion happens anywhere.
func EncodeDate(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EncodeText maps the empty string to null for the free-text columns.
func EncodeText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DecodeText maps a null free-text column to the empty string.
func DecodeText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
