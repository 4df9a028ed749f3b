package unseal

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/seal"
)

// Command creates a command that decrypts sealed recordings.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		keyPath       string
		keyPassphrase string
		password      string
		iterations    int
		outputPath    string
	)

	cmd := &cobra.Command{
		Use:   "unseal [recording.enc]",
		Short: "Decrypt a sealed recording",
		Long: "Decrypt a sealed recording using either the RSA private key (hybrid mode) " +
			"or the capture password (password mode).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnseal(args[0], outputPath, keyPath, keyPassphrase, password, iterations)
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "Path to the RSA private key for hybrid containers")
	cmd.Flags().StringVar(&keyPassphrase, "keypass", "", "Passphrase of the private key, if protected")
	cmd.Flags().StringVar(&password, "password", "", "Password for password-sealed containers")
	cmd.Flags().IntVar(&iterations, "iterations", seal.DefaultIterations, "PBKDF2 iteration count used at sealing time")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output path, defaults to the input without the .enc suffix")

	return cmd
}

func runUnseal(inputPath, outputPath, keyPath, keyPassphrase, password string, iterations int) error {
	if (keyPath == "") == (password == "") {
		return fmt.Errorf("specify exactly one of --key or --password")
	}

	container, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read sealed file: %w", err)
	}

	var plaintext []byte
	if keyPath != "" {
		priv, err := seal.LoadPrivateKey(keyPath, keyPassphrase)
		if err != nil {
			return fmt.Errorf("failed to load private key: %w", err)
		}
		plaintext, err = seal.OpenHybrid(container, priv)
		if err != nil {
			return err
		}
	} else {
		plaintext, err = seal.OpenPassword(container, password, iterations)
		if err != nil {
			return err
		}
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".enc")
		if outputPath == inputPath {
			outputPath = inputPath + ".dec"
		}
	}

	if err := os.WriteFile(outputPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("failed to write decrypted file: %w", err)
	}

	fmt.Println("Decrypted to:", outputPath)
	return nil
}
