// config.go: settings struct for the audiodash application and functions to
// load and save the settings.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/audiodash/audiodash-go/internal/errors"
)

//go:embed config.yaml
var configFiles embed.FS

// LogSettings contains settings for application log files.
type LogSettings struct {
	Enabled    bool   // true to enable log file output
	Path       string // path of the log file
	MaxSize    int    // maximum size of a log file in megabytes before rotation
	MaxBackups int    // maximum number of rotated log files to keep
	MaxAge     int    // maximum age of rotated log files in days
}

// ClipSettings contains settings for bounded clip captures.
type ClipSettings struct {
	PostSeconds int // seconds of audio captured after the trigger
}

// AudioSettings contains settings for the capture device and the rolling window.
type AudioSettings struct {
	Source        string // audio capture device ("sysdefault", "USB Audio", etc.)
	SampleRate    int    // capture sample rate in Hz
	Channels      int    // input channel count, down-mixed to mono
	BlockSize     int    // frames delivered per capture callback
	WindowSeconds int    // rolling window length held in memory
	Clip          ClipSettings
}

// ExportSettings contains settings for the recording export pipeline.
type ExportSettings struct {
	Type       string // audio file type: wav, mp3, flac, opus or aac
	Bitrate    string // bitrate for lossy formats
	FfmpegPath string // path to ffmpeg binary, resolved at runtime
	ClipPath   string // directory for clip recordings
	PanicPath  string // directory for panic recordings
}

// CryptoSettings contains settings for sealing panic recordings.
type CryptoSettings struct {
	Mode       string // "hybrid" (public key) or "password"
	PublicKey  string // path to the PEM public key, hybrid mode
	Password   string // passphrase for password mode
	Iterations int    // PBKDF2 iteration count
}

// SQLiteSettings contains settings for the SQLite metadata store.
type SQLiteSettings struct {
	Enabled bool
	Path    string
}

// OutputSettings wraps the metadata store selection.
type OutputSettings struct {
	SQLite SQLiteSettings
}

// TriggerSettings contains settings for the capture trigger source.
type TriggerSettings struct {
	Source     string // "signal" or "manual"
	DebounceMs int    // debounce window in milliseconds
}

// MainSettings contains application-level settings.
type MainSettings struct {
	Name string
	Log  LogSettings
}

// Settings is the root configuration struct.
type Settings struct {
	Debug   bool
	Main    MainSettings
	Audio   AudioSettings
	Export  ExportSettings
	Crypto  CryptoSettings
	Output  OutputSettings
	Trigger TriggerSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration into the global settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Get OS specific config paths
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	// Assign config paths to Viper
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter,
	// defined in defaults.go
	setDefaultConfig()

	// Read configuration file
	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	// Create directories for config file
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	// Write default config file
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading embedded config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveSettings writes the current settings back to the configuration file
// with an atomic replace.
func SaveSettings() error {
	settingsMutex.RLock()
	settingsCopy := *settingsInstance
	settingsMutex.RUnlock()

	data, err := yaml.Marshal(&settingsCopy)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-settings").
			Build()
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		return errors.Newf("no config file in use").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	tempPath := configPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing temporary config file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
