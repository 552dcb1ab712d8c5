package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatcut/beatcut/internal/domain"
)

const sampleProbeJSON = `{
	"streams": [
		{
			"index": 0,
			"codec_name": "h264",
			"codec_type": "video",
			"width": 1280,
			"height": 720,
			"r_frame_rate": "30/1"
		},
		{
			"index": 1,
			"codec_name": "aac",
			"codec_type": "audio",
			"sample_rate": "44100"
		}
	],
	"format": {
		"filename": "clip.mp4",
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "5.250000"
	}
}`

func TestParseOutput(t *testing.T) {
	result, err := parseOutput([]byte(sampleProbeJSON))
	require.NoError(t, err)

	assert.InDelta(t, 5.25, result.Duration, 1e-9)
	assert.Equal(t, 1280, result.Width)
	assert.Equal(t, 720, result.Height)
	assert.InDelta(t, 30.0, result.FrameRate, 1e-9)
	assert.Equal(t, "h264", result.VideoCodec)
	assert.True(t, result.HasAudio)
	assert.Equal(t, "aac", result.AudioCodec)
}

func TestParseOutputNoVideoStream(t *testing.T) {
	data := `{
		"streams": [{"index": 0, "codec_name": "mp3", "codec_type": "audio"}],
		"format": {"duration": "180.0"}
	}`
	_, err := parseOutput([]byte(data))
	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestParseOutputMissingDuration(t *testing.T) {
	data := `{
		"streams": [{"index": 0, "codec_name": "h264", "codec_type": "video"}],
		"format": {}
	}`
	_, err := parseOutput([]byte(data))
	assert.ErrorIs(t, err, ErrNoDuration)
}

func TestParseOutputInvalidJSON(t *testing.T) {
	_, err := parseOutput([]byte("not json"))
	assert.Error(t, err)
}

func TestParseOutputFractionalFrameRate(t *testing.T) {
	data := `{
		"streams": [
			{"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "24000/1001"}
		],
		"format": {"duration": "10.0"}
	}`
	result, err := parseOutput([]byte(data))
	require.NoError(t, err)
	assert.InDelta(t, 23.976, result.FrameRate, 1e-3)
}

func TestNeedsReencode(t *testing.T) {
	spec := domain.EncodeSpec{
		Width:      1280,
		Height:     720,
		FrameRate:  30,
		VideoCodec: "h264",
		AudioCodec: "aac",
	}

	conformant := Result{
		Duration: 5, Width: 1280, Height: 720, FrameRate: 30,
		VideoCodec: "h264", AudioCodec: "aac", HasAudio: true,
	}

	tests := []struct {
		name   string
		mutate func(*Result)
		want   bool
	}{
		{name: "conformant", mutate: func(r *Result) {}, want: false},
		{name: "wrong width", mutate: func(r *Result) { r.Width = 1920 }, want: true},
		{name: "wrong height", mutate: func(r *Result) { r.Height = 1080 }, want: true},
		{name: "wrong frame rate", mutate: func(r *Result) { r.FrameRate = 24 }, want: true},
		{name: "frame rate within tolerance", mutate: func(r *Result) { r.FrameRate = 30.0005 }, want: false},
		{name: "wrong video codec", mutate: func(r *Result) { r.VideoCodec = "hevc" }, want: true},
		{name: "wrong audio codec", mutate: func(r *Result) { r.AudioCodec = "mp3" }, want: true},
		{name: "no audio stream ignores audio codec", mutate: func(r *Result) {
			r.HasAudio = false
			r.AudioCodec = ""
		}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := conformant
			tt.mutate(&r)
			assert.Equal(t, tt.want, r.NeedsReencode(spec))
		})
	}
}

// Integration test - requires ffprobe to be installed
func TestProbe(t *testing.T) {
	t.Skip("Skipping integration test")
}
