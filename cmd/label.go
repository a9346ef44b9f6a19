package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/superblock"
	"github.com/deploymenttheory/go-aefs/internal/volume"
)

var labelDescr string

var labelCmd = &cobra.Command{
	Use:   "label <new-label>",
	Short: "Rewrite the volume label and description",
	Long: `Label opens the volume and rewrites the encrypted superblock
record with a new label (and optionally a new description). The
plaintext header is left untouched since the cipher configuration does
not change.`,
	Args: cobra.ExactArgs(1),
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

		sb, openErr := superblock.Open(base, phrase, cipher.DefaultRegistry(), volume.Parms{})
		if sb == nil {
			return openErr
		}
		defer sb.Drop()

		if openErr != nil {
			fmt.Printf("Warning: existing record unreadable (%v), rewriting\n", openErr)
		}

		sb.Label = args[0]
		if labelDescr != "" {
			sb.Description = labelDescr
		}

		if err := sb.Write(superblock.WriteOptions{SkipHeader: true}); err != nil {
			return err
		}

		fmt.Printf("Label set to %q\n", sb.Label)
		return nil
	},
}

func init() {
	labelCmd.Flags().StringVar(&labelDescr, "descr", "", "also set the volume description")
}
