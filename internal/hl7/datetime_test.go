package hl7

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToISO(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date and time with fraction", "20241217095948.021", "2024-12-17T09:59:48"},
		{"date and time", "20241217095948", "2024-12-17T09:59:48"},
		{"date only", "20241217", "2024-12-17"},
		{"birth date", "19800101", "1980-01-01"},
		{"short time padded", "2024121795948", "2024-12-17T09:59:48"},
		{"trailing dot", "20241217.5", "2024-12-17"},
		{"too short", "2024", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToISO(tt.in))
		})
	}
}
