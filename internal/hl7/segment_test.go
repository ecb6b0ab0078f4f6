package hl7

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldOutOfRange(t *testing.T) {
	s := Segment{"PID", "1", "2"}

	assert.Equal(t, "2", s.Field(2))
	assert.Equal(t, "", s.Field(3))
	assert.Equal(t, "", s.Field(99))
	assert.Equal(t, "", s.Field(-1))
	assert.Equal(t, "", Segment{}.Field(0))
}

func TestFirstComponent(t *testing.T) {
	assert.Equal(t, "A", FirstComponent("A^B^C"))
	assert.Equal(t, "12345", FirstComponent("12345^^^MRN"))
	assert.Equal(t, "plain", FirstComponent("plain"))
	assert.Equal(t, "", FirstComponent(""))
	assert.Equal(t, "", FirstComponent("^leading"))
}

func TestComponents(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, Components("A^B^C"))
	assert.Equal(t, []string{"DOE", "JOHN"}, Components("DOE^JOHN"))
	assert.Nil(t, Components(""))
}
