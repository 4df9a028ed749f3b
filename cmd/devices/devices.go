package devices

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiodash/audiodash-go/internal/audio"
	"github.com/audiodash/audiodash-go/internal/conf"
)

// Command creates a command that lists available capture devices.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDevices()
		},
	}

	return cmd
}

func listDevices() error {
	devices, err := audio.ListDevices()
	if err != nil {
		return fmt.Errorf("failed to list capture devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No capture devices found")
		return nil
	}

	fmt.Println("Available capture devices:")
	for _, device := range devices {
		fmt.Printf("  %d: %s (%s)\n", device.Index, device.Name, device.ID)
	}
	return nil
}
