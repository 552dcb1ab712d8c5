package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Encode    EncodeConfig    `yaml:"encode"`

	// TailDuration is the length in seconds of the synthetic interval
	// appended after the last beat.
	TailDuration float64 `yaml:"tail_duration"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage for finished renders: "local" or "gcs"
	Type string `yaml:"type"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`

	// GCS storage options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type WorkspaceConfig struct {
	// BaseDir holds one scratch directory per processing session.
	BaseDir string `yaml:"base_dir"`
}

// EncodeConfig is the target spec every rendered segment must conform to,
// so that the final concatenation can be a plain stream copy.
type EncodeConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FrameRate  float64 `yaml:"frame_rate"`
	VideoCodec string  `yaml:"video_codec"`
	AudioCodec string  `yaml:"audio_codec"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(config)

	return config, nil
}

// Default returns a configuration with every default applied, used by the CLI
// when no config file is given.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	if config.Storage.Type == "" {
		config.Storage.Type = "local"
	}

	if config.Storage.OutputDir == "" {
		config.Storage.OutputDir = "output"
	}

	if config.Workspace.BaseDir == "" {
		config.Workspace.BaseDir = "work"
	}

	if config.Encode.Width == 0 {
		config.Encode.Width = 1280
	}

	if config.Encode.Height == 0 {
		config.Encode.Height = 720
	}

	if config.Encode.FrameRate == 0 {
		config.Encode.FrameRate = 30
	}

	if config.Encode.VideoCodec == "" {
		config.Encode.VideoCodec = "h264"
	}

	if config.Encode.AudioCodec == "" {
		config.Encode.AudioCodec = "aac"
	}

	if config.TailDuration == 0 {
		config.TailDuration = 2.0
	}
}
