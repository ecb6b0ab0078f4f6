package hl7

import "strings"

// Message is the ordered segment list of one inbound HL7 message.
type Message []Segment

// Parse splits raw message text into segments. Lines may be terminated by
// \r, \n or \r\n; blank and whitespace-only lines are dropped. No grammar
// validation happens here: a malformed line becomes a degenerate segment
// so the rest of the message still parses.
func Parse(raw string) Message {
	normalized := strings.ReplaceAll(raw, "\r", "\n")

	var msg Message
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		msg = append(msg, Segment(strings.Split(line, FieldSeparator)))
	}
	return msg
}

// Segment returns the first segment with the given name, preserving
// source order for repeated segments. An absent name yields an empty
// segment so downstream field lookups degrade to "".
func (m Message) Segment(name string) Segment {
	for _, s := range m {
		if s.Name() == name {
			return s
		}
	}
	return Segment{}
}
