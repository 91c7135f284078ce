package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds bridge process settings. Values come from an optional YAML
// file (CONFIG_FILE) overridden by environment variables.
type Config struct {
	ListenAddr     string  `yaml:"listenAddr"`
	AudioPoolLimit int     `yaml:"audioPoolLimit"`
	VideoPoolLimit int     `yaml:"videoPoolLimit"`
	Playback       bool    `yaml:"playback"`
	SampleRate     int     `yaml:"sampleRate"`
	Channels       int     `yaml:"channels"`
	ToneHz         float64 `yaml:"toneHz"`
	FrameRate      float64 `yaml:"frameRate"`
	VideoWidth     int     `yaml:"videoWidth"`
	VideoHeight    int     `yaml:"videoHeight"`
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE if set, then environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     ":9090",
		AudioPoolLimit: 0,
		VideoPoolLimit: 8,
		Playback:       false,
		SampleRate:     44100,
		Channels:       2,
		ToneHz:         440,
		FrameRate:      25,
		VideoWidth:     640,
		VideoHeight:    360,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.AudioPoolLimit = getEnvInt("AUDIO_POOL_LIMIT", cfg.AudioPoolLimit)
	cfg.VideoPoolLimit = getEnvInt("VIDEO_POOL_LIMIT", cfg.VideoPoolLimit)
	cfg.Playback = getEnvBool("PLAYBACK", cfg.Playback)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
