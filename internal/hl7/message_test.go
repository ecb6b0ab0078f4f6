package hl7

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	raw := "MSH|^~\\&|RIS|HOSP|||20241217095948||ORM^O01|MSG001|P|2.5.1\r\n" +
		"PID|1||12345^^^MRN||DOE^JOHN\r" +
		"\r\n" +
		"   \n" +
		"OBR|1|ACC100||US1^Abdominal ultrasound\n" +
		"TQ1|||||||20241217095948.021||S^Stat^HL70078"

	msg := Parse(raw)

	assert.Len(t, msg, 4, "blank lines must be dropped")
	assert.Equal(t, "MSH", msg[0].Name())
	assert.Equal(t, "PID", msg[1].Name())
	assert.Equal(t, "OBR", msg[2].Name())
	assert.Equal(t, "TQ1", msg[3].Name())
}

func TestParseFieldPositions(t *testing.T) {
	msg := Parse("PID|1||12345^^^MRN||DOE^JOHN||19800101|M")

	pid := msg.Segment("PID")
	assert.Equal(t, "PID", pid.Field(0), "field 0 is the segment name")
	assert.Equal(t, "1", pid.Field(1))
	assert.Equal(t, "12345^^^MRN", pid.Field(3))
	assert.Equal(t, "DOE^JOHN", pid.Field(5))
	assert.Equal(t, "19800101", pid.Field(7))
	assert.Equal(t, "M", pid.Field(8))
}

func TestParseMalformedLines(t *testing.T) {
	// A garbled line must not abort parsing of the rest of the message.
	msg := Parse("garbage without delimiters\nPID|1||12345")

	assert.Len(t, msg, 2)
	assert.Equal(t, "garbage without delimiters", msg[0].Name())
	assert.Equal(t, "12345", msg.Segment("PID").Field(3))
}

func TestSegmentFirstMatch(t *testing.T) {
	msg := Parse("OBR|1|FIRST\nOBR|2|SECOND")

	assert.Equal(t, "FIRST", msg.Segment("OBR").Field(2))
}

func TestSegmentAbsent(t *testing.T) {
	msg := Parse("PID|1")

	tq1 := msg.Segment("TQ1")
	assert.Equal(t, "", tq1.Name())
	assert.Equal(t, "", tq1.Field(8))
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\r\n\r\n   \n"))
}
