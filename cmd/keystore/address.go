package keystore

import (
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/util/command"
)

func newAddress() *cobra.Command {
	var path, derivationPath string

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Unlock the configured account and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultSDKConfigFromEnv()
			config.SetupLogger(cfg.Logger)

			if path != "" {
				cfg.Account.PrivateKey = ""
				cfg.Account.KeystorePath = path
			}
			if derivationPath != "" {
				cfg.Account.DerivationPath = derivationPath
			}

			acc, err := account.Unlock(cmd.Context(), cfg.Account, account.PromptPassword)
			if err != nil {
				return err
			}

			address, err := acc.Address(cmd.Context())
			if err != nil {
				return err
			}

			return command.PrintJSON(cmd.OutOrStdout(), map[string]string{"address": address.Hex()})
		},
	}

	cmd.Flags().StringVar(&path, pathFlag, "", "Keystore file (default DSA_KEYSTORE_PATH)")
	cmd.Flags().StringVar(&derivationPath, derivationPathFlag, "", "BIP44 derivation path (default from keystore)")

	return cmd
}
