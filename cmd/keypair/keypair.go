package keypair

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/seal"
)

// Command creates a command that generates an RSA keypair for sealing
// panic recordings.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		bits       int
		outDir     string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "keypair",
		Short: "Generate an RSA keypair for sealed recordings",
		Long: "Generate an RSA keypair. The public key stays on the device and seals panic " +
			"recordings, the private key should be moved somewhere safe and is only needed to unseal them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pubPath, privPath, err := seal.GenerateKeyPair(outDir, bits, passphrase)
			if err != nil {
				return fmt.Errorf("failed to generate keypair: %w", err)
			}
			fmt.Println("Public key: ", pubPath)
			fmt.Println("Private key:", privPath)
			fmt.Println("Keep the private key off this device, it is the only way to unseal panic recordings.")
			return nil
		},
	}

	cmd.Flags().IntVar(&bits, "bits", 2048, "RSA key size in bits (2048 or 4096)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the key files to")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Optional passphrase protecting the private key")

	return cmd
}
