package render

import (
	"context"
	"fmt"
)

// Mux attaches the external audio track to the merged video. The video stream
// is copied unmodified; the audio is re-encoded to the delivery codec. With
// -shortest the output stops at whichever input ends first, so a long audio
// track is cut to the video length and vice versa.
func (r *Renderer) Mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	if err := validateFile(videoPath); err != nil {
		return fmt.Errorf("mux failed: %w", err)
	}
	if err := validateFile(audioPath); err != nil {
		return fmt.Errorf("mux failed: %w", err)
	}

	if err := runFFmpeg(ctx, r.muxArgs(videoPath, audioPath, outputPath)); err != nil {
		return fmt.Errorf("mux failed: %w", err)
	}

	return nil
}

func (r *Renderer) muxArgs(videoPath, audioPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", audioEncoder(r.spec.AudioCodec),
		"-b:a", defaultAudioBitrate,
		"-shortest",
		"-movflags", "+faststart",
		outputPath,
	}
}
