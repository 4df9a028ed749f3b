// ffmpeg based encoding of PCM data to the configured distribution format
package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/audiodash/audiodash-go/internal/conf"
)

// tempExt is the temporary file extension used when exporting audio with FFmpeg
const tempExt = ".temp"

// encodeWithFFmpeg exports PCM data to the specified format using FFmpeg.
// outputPath is the full path with the audio file name and extension.
func encodeWithFFmpeg(pcmData []byte, outputPath string, settings *conf.ExportSettings, sampleRate int) error {
	ffmpegPath, err := validateFFmpegPath(settings.FfmpegPath)
	if err != nil {
		return err
	}

	// temporary file is used to perform export as an atomic file operation
	tempFilePath, err := createTempFile(outputPath)
	if err != nil {
		return err
	}

	if err := runFFmpegCommand(ffmpegPath, pcmData, tempFilePath, settings, sampleRate); err != nil {
		os.Remove(tempFilePath)
		return err
	}

	return finalizeOutput(tempFilePath)
}

// validateFFmpegPath resolves the configured ffmpeg binary on the PATH.
func validateFFmpegPath(configured string) (string, error) {
	if configured == "" {
		configured = "ffmpeg"
	}
	path, err := exec.LookPath(configured)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found at %q: %w", configured, err)
	}
	return path, nil
}

// createTempFile creates a temporary file path for FFmpeg output
func createTempFile(outputPath string) (string, error) {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio export directory: %w", err)
	}
	return outputPath + tempExt, nil
}

// finalizeOutput removes tempExt from the file name completing the atomic file operation
func finalizeOutput(tempFilePath string) error {
	finalOutputPath := tempFilePath[:len(tempFilePath)-len(tempExt)]
	if err := os.Rename(tempFilePath, finalOutputPath); err != nil {
		return fmt.Errorf("failed to rename temporary audio file to final output: %w", err)
	}
	return nil
}

// runFFmpegCommand executes the FFmpeg command to process the audio
func runFFmpegCommand(ffmpegPath string, pcmData []byte, tempFilePath string, settings *conf.ExportSettings, sampleRate int) error {
	args := buildFFmpegArgs(tempFilePath, settings, sampleRate)

	cmd := exec.Command(ffmpegPath, args...)

	// Create a pipe to send PCM data to FFmpeg's stdin
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start FFmpeg: %w", err)
	}

	if _, err := stdin.Write(pcmData); err != nil {
		stdin.Close()
		_ = cmd.Wait()
		return fmt.Errorf("failed to write PCM data to FFmpeg: %w", err)
	}
	// Close stdin to signal end of input
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("FFmpeg failed: %w", err)
	}

	return nil
}

// buildFFmpegArgs constructs the arguments for the FFmpeg command
func buildFFmpegArgs(tempFilePath string, settings *conf.ExportSettings, sampleRate int) []string {
	outputEncoder := getEncoder(settings.Type)
	outputFormat := getOutputFormat(settings.Type)
	outputBitrate := getMaxBitrate(settings.Type, settings.Bitrate)

	return []string{
		"-f", "s16le", // raw input, 16-bit little-endian
		"-ar", strconv.Itoa(sampleRate), // sample rate
		"-ac", "1", // capture engine output is always mono
		"-i", "-", // read from stdin
		"-c:a", outputEncoder,
		"-b:a", outputBitrate,
		"-f", outputFormat, // specify the output format
		"-y",         // overwrite output file if it exists
		tempFilePath, // write to the temporary file
	}
}

// getEncoder returns the appropriate codec to use with FFmpeg based on the format
func getEncoder(format string) string {
	switch format {
	case "flac":
		return "flac"
	case "opus":
		return "libopus"
	case "aac":
		return "aac"
	case "mp3":
		return "libmp3lame"
	default:
		return format
	}
}

// getOutputFormat returns the appropriate output format for FFmpeg based on the export type
func getOutputFormat(exportType string) string {
	switch exportType {
	case "flac":
		return "flac"
	case "opus":
		return "opus"
	case "aac":
		return "mp4" // AAC uses the MP4 container format
	case "mp3":
		return "mp3"
	default:
		return exportType
	}
}

// getMaxBitrate limits the bitrate to the maximum allowed by the format
func getMaxBitrate(format, requestedBitrate string) string {
	switch format {
	case "opus":
		if requestedBitrate > "256k" {
			return "256k"
		}
	case "mp3":
		if requestedBitrate > "320k" {
			return "320k"
		}
	}
	return requestedBitrate
}
