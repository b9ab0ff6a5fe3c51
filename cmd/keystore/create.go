package keystore

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/util/command"
)

func newCreate() *cobra.Command {
	var (
		path           string
		derivationPath string
		light          bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Encrypt a mnemonic into a new keystore file",
		Long: `Encrypt a mnemonic into a new keystore file.

The mnemonic, the keystore password and the optional mnemonic passphrase
are read from the terminal. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultSDKConfigFromEnv()
			config.SetupLogger(cfg.Logger)

			if path == "" {
				path = cfg.Account.KeystorePath
			}
			if path == "" {
				return errors.Errorf("--%s or DSA_KEYSTORE_PATH is required", pathFlag)
			}

			mnemonic, err := account.PromptPassword("Enter mnemonic: ")
			if err != nil {
				return err
			}
			mnemonic = strings.Join(strings.Fields(mnemonic), " ")

			password, err := account.PromptPassword("Enter keystore password: ")
			if err != nil {
				return err
			}
			confirm, err := account.PromptPassword("Repeat keystore password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			passphrase := cfg.Account.MnemonicPassphrase
			if passphrase == "" {
				passphrase, err = account.PromptPassword("Enter mnemonic passphrase (empty for none): ")
				if err != nil {
					return err
				}
			}

			params := account.DefaultScryptParams()
			if light {
				params = account.LightScryptParams()
			}

			ks, err := account.CreateKeystore(path, mnemonic, password, passphrase, derivationPath, params)
			if err != nil {
				return err
			}

			return command.PrintJSON(cmd.OutOrStdout(), map[string]string{
				"address":        ks.Address,
				"derivationPath": ks.DerivationPath,
				"path":           path,
			})
		},
	}

	cmd.Flags().StringVar(&path, pathFlag, "", "Keystore file (default DSA_KEYSTORE_PATH)")
	cmd.Flags().StringVar(&derivationPath, derivationPathFlag, config.DefaultDerivationPath, "BIP44 derivation path")
	cmd.Flags().BoolVar(&light, lightFlag, false, "Use light scrypt parameters (testing only)")

	return cmd
}
