package hl7

import "strings"

// HL7 v2 delimiters. Only the field and component separators are honored;
// repetition and escape sequences are out of scope for this gateway.
const (
	FieldSeparator     = "|"
	ComponentSeparator = "^"
)

// Segment is one message line split into its fields. Field 0 is the
// segment name (MSH, PID, OBR, TQ1, ...).
type Segment []string

// Name returns the segment identifier, or "" for a degenerate segment.
func (s Segment) Name() string {
	return s.Field(0)
}

// Field returns the field at index i. An index outside the segment yields
// "" so garbled or truncated input never faults a lookup.
func (s Segment) Field(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return s[i]
}

// FirstComponent returns the part of a field before the first component
// separator. Empty input maps to "".
func FirstComponent(v string) string {
	if v == "" {
		return ""
	}
	if i := strings.Index(v, ComponentSeparator); i >= 0 {
		return v[:i]
	}
	return v
}

// Components splits a field into its components. Empty input yields nil.
func Components(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ComponentSeparator)
}
