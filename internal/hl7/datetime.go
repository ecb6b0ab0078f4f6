package hl7

import (
	"fmt"
	"strings"
)

// ToISO converts a compact HL7 timestamp (YYYYMMDD[HHMMSS[.frac]]) into
// YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS. Anything shorter than eight
// characters is unparseable and maps to "" rather than an error. The time
// portion is taken up to any fractional-second marker and left-padded
// with zeros to six digits; fractional seconds are always discarded.
func ToISO(ts string) string {
	if len(ts) < 8 {
		return ""
	}

	date := fmt.Sprintf("%s-%s-%s", ts[0:4], ts[4:6], ts[6:8])

	t := strings.SplitN(ts[8:], ".", 2)[0]
	if t == "" {
		return date
	}
	if len(t) < 6 {
		t = strings.Repeat("0", 6-len(t)) + t
	}
	return fmt.Sprintf("%sT%s:%s:%s", date, t[0:2], t[2:4], t[4:6])
}
