package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name passes through", "final-render", "final-render"},
		{"path separators replaced", "a/b\\c", "a_b_c"},
		{"header breaking characters replaced", "x\"y\nz", "x_y_z"},
		{"reserved characters replaced", "a:b*c?d<e>f|g", "a_b_c_d_e_f_g"},
		{"leading and trailing dots trimmed", " .render. ", "render"},
		{"empty falls back to untitled", "", "untitled"},
		{"only invalid characters falls back", " .. ", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
