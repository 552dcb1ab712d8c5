package domain

// MediaAsset represents one uploaded source clip. DurationSeconds and IsValid
// are filled in by the prober during validation; an asset that failed
// validation is never offered to the assignment engine.
type MediaAsset struct {
	ID              string  `json:"id"`
	OriginalName    string  `json:"original_name"`
	StoragePath     string  `json:"storage_path"`
	DurationSeconds float64 `json:"duration_seconds"`
	IsValid         bool    `json:"is_valid"`
	ValidationError string  `json:"validation_error,omitempty"`
}

// EncodeSpec is the target geometry and codec set for conformant segments.
type EncodeSpec struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameRate  float64 `json:"frame_rate"`
	VideoCodec string  `json:"video_codec"`
	AudioCodec string  `json:"audio_codec"`
}

// Assignment pairs one interval with the clip that will fill it.
type Assignment struct {
	IntervalIndex int    `json:"interval_index"`
	AssetID       string `json:"asset_id"`
}
