// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

var validExportTypes = map[string]bool{
	"wav": true, "mp3": true, "flac": true, "opus": true, "aac": true,
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateAudioSettings(&settings.Audio); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateExportSettings(&settings.Export); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateCryptoSettings(&settings.Crypto); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateTriggerSettings(&settings.Trigger); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateAudioSettings(audio *AudioSettings) error {
	var errs []string

	if audio.SampleRate <= 0 {
		errs = append(errs, fmt.Sprintf("audio sample rate must be greater than 0: %d", audio.SampleRate))
	}
	if audio.Channels <= 0 {
		errs = append(errs, fmt.Sprintf("audio channel count must be greater than 0: %d", audio.Channels))
	}
	if audio.BlockSize <= 0 {
		errs = append(errs, fmt.Sprintf("audio block size must be greater than 0: %d", audio.BlockSize))
	}
	// a zero-length window would make the ring buffer capacity zero,
	// which is a configuration error, not a runtime condition
	if audio.WindowSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("audio window must be greater than 0 seconds: %d", audio.WindowSeconds))
	}
	if audio.Clip.PostSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("clip post capture must be greater than 0 seconds: %d", audio.Clip.PostSeconds))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateExportSettings(export *ExportSettings) error {
	if !validExportTypes[export.Type] {
		return fmt.Errorf("invalid export type: %s (expected wav, mp3, flac, opus or aac)", export.Type)
	}
	if export.ClipPath == "" || export.PanicPath == "" {
		return fmt.Errorf("export clip and panic paths must not be empty")
	}
	return nil
}

func validateCryptoSettings(crypto *CryptoSettings) error {
	switch crypto.Mode {
	case "hybrid", "password":
	default:
		return fmt.Errorf("invalid crypto mode: %s (expected hybrid or password)", crypto.Mode)
	}
	if crypto.Iterations < 1 {
		return fmt.Errorf("crypto iterations must be at least 1: %d", crypto.Iterations)
	}
	return nil
}

func validateTriggerSettings(trigger *TriggerSettings) error {
	switch trigger.Source {
	case "signal", "manual":
	default:
		return fmt.Errorf("invalid trigger source: %s (expected signal or manual)", trigger.Source)
	}
	if trigger.DebounceMs < 0 {
		return fmt.Errorf("trigger debounce must not be negative: %d", trigger.DebounceMs)
	}
	return nil
}
