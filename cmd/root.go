package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/audiodash/audiodash-go/cmd/devices"
	"github.com/audiodash/audiodash-go/cmd/keypair"
	"github.com/audiodash/audiodash-go/cmd/realtime"
	"github.com/audiodash/audiodash-go/cmd/unseal"
	"github.com/audiodash/audiodash-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "audiodash",
		Short: "AudioDash CLI",
		Long:  "AudioDash keeps a rolling window of recent audio in memory and saves it on demand as clip or panic recordings.",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	// Add sub-commands to the root command.
	subcommands := []*cobra.Command{
		realtime.Command(settings),
		devices.Command(settings),
		keypair.Command(settings),
		unseal.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
