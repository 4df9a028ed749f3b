package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/audiodash/audiodash-go/internal/conf"
)

func TestBuildFFmpegArgs(t *testing.T) {
	settings := &conf.ExportSettings{
		Type:    "mp3",
		Bitrate: "128k",
	}

	args := buildFFmpegArgs("/tmp/out.mp3.temp", settings, 44100)

	assert.Equal(t, []string{
		"-f", "s16le",
		"-ar", "44100",
		"-ac", "1",
		"-i", "-",
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		"-f", "mp3",
		"-y",
		"/tmp/out.mp3.temp",
	}, args)
}

func TestGetEncoder(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"flac", "flac"},
		{"opus", "libopus"},
		{"aac", "aac"},
		{"mp3", "libmp3lame"},
		{"wav", "wav"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.expected, getEncoder(tt.format))
		})
	}
}

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		exportType string
		expected   string
	}{
		{"flac", "flac"},
		{"opus", "opus"},
		{"aac", "mp4"},
		{"mp3", "mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.exportType, func(t *testing.T) {
			assert.Equal(t, tt.expected, getOutputFormat(tt.exportType))
		})
	}
}

func TestGetMaxBitrate(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		requested string
		expected  string
	}{
		{"opus over cap", "opus", "320k", "256k"},
		{"opus under cap", "opus", "128k", "128k"},
		{"mp3 over cap", "mp3", "384k", "320k"},
		{"mp3 under cap", "mp3", "128k", "128k"},
		{"flac unlimited", "flac", "999k", "999k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getMaxBitrate(tt.format, tt.requested))
		})
	}
}

func TestValidateFFmpegPathMissingBinary(t *testing.T) {
	_, err := validateFFmpegPath("definitely-not-a-real-ffmpeg-binary")
	assert.Error(t, err)
}
