package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/superblock"
	"github.com/deploymenttheory/go-aefs/internal/types"
	"github.com/deploymenttheory/go-aefs/internal/volume"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Inspect volume superblock metadata",
	Long: `Info opens the volume and prints its superblock metadata. A
damaged or missing encrypted record is reported as a warning rather
than a failure, since the volume itself may still be repairable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig()
		if err != nil {
			return err
		}

		base, err := resolveBasePath(config)
		if err != nil {
			return err
		}
		phrase, err := resolvePassphrase(config)
		if err != nil {
			return err
		}

		parms := volume.Parms{ReadOnly: true}
		sb, openErr := superblock.Open(base, phrase, cipher.DefaultRegistry(), parms)
		if sb == nil {
			return openErr
		}
		defer sb.Drop()

		if openErr != nil {
			switch {
			case errors.Is(openErr, types.ErrBadSuperblock):
				fmt.Println("Warning: superblock magic invalid (wrong passphrase or corrupt record)")
			case errors.Is(openErr, types.ErrBadVersion):
				fmt.Println("Warning: superblock version is newer than this tool supports")
			default:
				fmt.Printf("Warning: encrypted superblock unreadable: %v\n", openErr)
			}
		}

		fmt.Printf("Base path:    %s\n", sb.BasePath())
		fmt.Printf("Cipher:       %s-%d-%d\n", sb.Key().Cipher().ID(),
			sb.Key().KeySize()*8, sb.Key().BlockSize()*8)
		fmt.Printf("CBC:          %v\n", sb.Parms().CryptoFlags.UseCBC())
		fmt.Printf("Magic:        0x%08X\n", sb.Magic)
		fmt.Printf("Version:      %d\n", sb.Version)
		fmt.Printf("Flags:        0x%08X\n", sb.Flags)
		fmt.Printf("Root ID:      %d\n", sb.RootID)
		fmt.Printf("Label:        %s\n", sb.Label)
		fmt.Printf("Description:  %s\n", sb.Description)
		if verbose {
			fmt.Printf("Volume:       %s\n", sb.Volume().ID())
		}
		return nil
	},
}
