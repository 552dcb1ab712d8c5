package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "integer rate", input: "30/1", want: 30},
		{name: "ntsc film", input: "24000/1001", want: 23.976023976023978},
		{name: "plain integer", input: "25", want: 25},
		{name: "whitespace", input: " 50/2 ", want: 25},
		{name: "zero denominator", input: "30/0", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc/def", wantErr: true},
		{name: "too many parts", input: "1/2/3", wantErr: true},
		{name: "float numerator", input: "29.97/1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRational(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRational)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
