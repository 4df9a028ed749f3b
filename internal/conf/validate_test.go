package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Audio.Source = "sysdefault"
	s.Audio.SampleRate = 44100
	s.Audio.Channels = 1
	s.Audio.BlockSize = 2048
	s.Audio.WindowSeconds = 45
	s.Audio.Clip.PostSeconds = 15
	s.Export.Type = "mp3"
	s.Export.Bitrate = "64k"
	s.Export.ClipPath = "data/recordings/clips"
	s.Export.PanicPath = "data/recordings/panic"
	s.Crypto.Mode = "hybrid"
	s.Crypto.Iterations = 100000
	s.Trigger.Source = "signal"
	s.Trigger.DebounceMs = 300
	return s
}

func TestValidateSettingsValid(t *testing.T) {
	assert.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero sample rate", func(s *Settings) { s.Audio.SampleRate = 0 }},
		{"negative sample rate", func(s *Settings) { s.Audio.SampleRate = -44100 }},
		{"zero channels", func(s *Settings) { s.Audio.Channels = 0 }},
		{"zero block size", func(s *Settings) { s.Audio.BlockSize = 0 }},
		{"zero window", func(s *Settings) { s.Audio.WindowSeconds = 0 }},
		{"zero post capture", func(s *Settings) { s.Audio.Clip.PostSeconds = 0 }},
		{"unknown export type", func(s *Settings) { s.Export.Type = "ogg" }},
		{"empty clip path", func(s *Settings) { s.Export.ClipPath = "" }},
		{"empty panic path", func(s *Settings) { s.Export.PanicPath = "" }},
		{"unknown crypto mode", func(s *Settings) { s.Crypto.Mode = "plaintext" }},
		{"zero iterations", func(s *Settings) { s.Crypto.Iterations = 0 }},
		{"unknown trigger source", func(s *Settings) { s.Trigger.Source = "webhook" }},
		{"negative debounce", func(s *Settings) { s.Trigger.DebounceMs = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			assert.Error(t, ValidateSettings(s))
		})
	}
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	s := validSettings()
	s.Audio.SampleRate = 0
	s.Export.Type = "ogg"
	s.Crypto.Mode = "none"
	s.Trigger.Source = "webhook"

	err := ValidateSettings(s)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 4, "each section reports its own error")
}

func TestValidateSettingsAllExportTypes(t *testing.T) {
	for _, exportType := range []string{"wav", "mp3", "flac", "opus", "aac"} {
		t.Run(exportType, func(t *testing.T) {
			s := validSettings()
			s.Export.Type = exportType
			assert.NoError(t, ValidateSettings(s))
		})
	}
}
