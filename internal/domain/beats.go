package domain

import "errors"

var (
	ErrTooFewBeats       = errors.New("beat track needs at least 2 timestamps")
	ErrNonAscendingBeats = errors.New("beat timestamps must be strictly increasing")
)

// BeatTrack is an ascending sequence of audio event timestamps in seconds.
type BeatTrack struct {
	Beats []float64 `json:"beats"`
}

// NewBeatTrack validates the timestamp sequence and wraps it.
func NewBeatTrack(beats []float64) (*BeatTrack, error) {
	if len(beats) < 2 {
		return nil, ErrTooFewBeats
	}
	for i := 1; i < len(beats); i++ {
		if beats[i] <= beats[i-1] {
			return nil, ErrNonAscendingBeats
		}
	}
	return &BeatTrack{Beats: beats}, nil
}

// Intervals derives the required segment durations: one per consecutive beat
// pair, plus a synthetic tail of tailDuration seconds after the last beat.
// The result always has exactly len(Beats) entries.
func (bt *BeatTrack) Intervals(tailDuration float64) []float64 {
	intervals := make([]float64, 0, len(bt.Beats))
	for i := 0; i < len(bt.Beats)-1; i++ {
		intervals = append(intervals, bt.Beats[i+1]-bt.Beats[i])
	}
	intervals = append(intervals, tailDuration)
	return intervals
}
