package realtime

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/daemon"
)

// Command creates a new command for continuous capture mode.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realtime",
		Short: "Capture audio continuously",
		Long:  "Start continuous capture, keeping a rolling window of recent audio and saving it when triggered.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return daemon.Run(settings)
		},
	}

	// Set up flags specific to the 'realtime' command
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the realtime command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Audio.Source, "source", viper.GetString("audio.source"), "Audio capture source (\"sysdefault\", \"USB Audio\", \":0,0\", etc.)")
	cmd.Flags().IntVar(&settings.Audio.WindowSeconds, "window", viper.GetInt("audio.windowseconds"), "Rolling window length in seconds")
	cmd.Flags().IntVar(&settings.Audio.Clip.PostSeconds, "post", viper.GetInt("audio.clip.postseconds"), "Seconds of audio captured after a clip trigger")
	cmd.Flags().StringVar(&settings.Export.ClipPath, "clippath", viper.GetString("export.clippath"), "Path to save clip recordings")
	cmd.Flags().StringVar(&settings.Export.PanicPath, "panicpath", viper.GetString("export.panicpath"), "Path to save panic recordings")
	cmd.Flags().StringVar(&settings.Export.Type, "exporttype", viper.GetString("export.type"), "Audio file type for exports (wav, mp3, flac, opus, aac)")
	cmd.Flags().StringVar(&settings.Crypto.Mode, "cryptomode", viper.GetString("crypto.mode"), "Sealing mode for panic recordings (hybrid/password)")
	cmd.Flags().StringVar(&settings.Trigger.Source, "trigger", viper.GetString("trigger.source"), "Trigger source (signal/manual)")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
