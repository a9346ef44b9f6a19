package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/superblock"
	"github.com/deploymenttheory/go-aefs/internal/types"
	"github.com/deploymenttheory/go-aefs/internal/volume"
)

var (
	createCipher  string
	createKeyBits int
	createNoCBC   bool
	createLabel   string
	createDescr   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new encrypted volume",
	Long: `Create initializes the superblock pair and data file for a new
volume at the given base path. The cipher and key size are recorded in
the plaintext header; everything else lives in the encrypted record.`,
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

		cipherID := createCipher
		if cipherID == "" {
			cipherID = config.DefaultCipher
		}
		keyBits := createKeyBits
		if keyBits == 0 {
			keyBits = config.DefaultKeyBits
		}

		parms := volume.Parms{
			CryptoFlags: types.CryptoFlags(0).WithCBC(config.UseCBC && !createNoCBC),
		}

		sb, err := superblock.Create(base, phrase, cipher.DefaultRegistry(), parms, superblock.CreateOptions{
			CipherID:    cipherID,
			KeySize:     keyBits / 8,
			Label:       createLabel,
			Description: createDescr,
		})
		if err != nil {
			return err
		}
		defer sb.Drop()

		fmt.Printf("Created volume at %s\n", base)
		if verbose {
			fmt.Printf("  Cipher:  %s-%d-%d\n", sb.Key().Cipher().ID(),
				sb.Key().KeySize()*8, sb.Key().BlockSize()*8)
			fmt.Printf("  CBC:     %v\n", sb.Parms().CryptoFlags.UseCBC())
			fmt.Printf("  Volume:  %s\n", sb.Volume().ID())
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createCipher, "cipher", "", "cipher identifier (aes, twofish)")
	createCmd.Flags().IntVar(&createKeyBits, "key-bits", 0, "key size in bits")
	createCmd.Flags().BoolVar(&createNoCBC, "no-cbc", false, "disable CBC chaining")
	createCmd.Flags().StringVar(&createLabel, "label", "", "volume label")
	createCmd.Flags().StringVar(&createDescr, "descr", "", "volume description")
}
