package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBeatTrackValidation(t *testing.T) {
	tests := []struct {
		name    string
		beats   []float64
		wantErr error
	}{
		{name: "valid", beats: []float64{0, 1.0, 3.5}},
		{name: "empty", beats: nil, wantErr: ErrTooFewBeats},
		{name: "single beat", beats: []float64{1.0}, wantErr: ErrTooFewBeats},
		{name: "duplicate timestamp", beats: []float64{0, 1.0, 1.0}, wantErr: ErrNonAscendingBeats},
		{name: "descending", beats: []float64{0, 2.0, 1.0}, wantErr: ErrNonAscendingBeats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bt, err := NewBeatTrack(tt.beats)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, bt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.beats, bt.Beats)
		})
	}
}

func TestIntervalsCountMatchesBeatCount(t *testing.T) {
	tests := []struct {
		name  string
		beats []float64
	}{
		{name: "two beats", beats: []float64{0, 1.0}},
		{name: "three beats", beats: []float64{0, 1.0, 3.5}},
		{name: "many beats", beats: []float64{0.5, 1.0, 1.5, 2.25, 4.0, 7.75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bt, err := NewBeatTrack(tt.beats)
			require.NoError(t, err)

			intervals := bt.Intervals(2.0)
			assert.Len(t, intervals, len(tt.beats))
		})
	}
}

func TestIntervalsDurations(t *testing.T) {
	bt, err := NewBeatTrack([]float64{0, 1.0, 3.5})
	require.NoError(t, err)

	intervals := bt.Intervals(2.0)
	assert.Equal(t, []float64{1.0, 2.5, 2.0}, intervals)
}

func TestIntervalsTailDuration(t *testing.T) {
	bt, err := NewBeatTrack([]float64{10.0, 12.0})
	require.NoError(t, err)

	intervals := bt.Intervals(1.5)
	assert.Equal(t, []float64{2.0, 1.5}, intervals)
}
