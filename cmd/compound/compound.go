package compound

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/util/command"
)

const (
	ownerFlag string = "owner"
	keyFlag   string = "key"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("compound",
		newPosition(),
	)
}

func newPosition() *cobra.Command {
	var owner, key string

	cmd := &cobra.Command{
		Use:   "position",
		Short: "Print the Compound position of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			positionKey, err := compound.ParsePositionKey(key)
			if err != nil {
				return err
			}

			return command.WithDSA(cmd.Context(), config.DefaultSDKConfigFromEnv(), func(ctx context.Context, d *dsa.DSA) error {
				var address common.Address
				if owner != "" {
					address, err = dsa.ParseAddress(ownerFlag, owner)
				} else {
					address, err = d.UserAddress(ctx)
				}
				if err != nil {
					return err
				}

				position, err := d.Positions.GetPosition(ctx, address, positionKey)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), position)
			})
		},
	}

	cmd.Flags().StringVar(&owner, ownerFlag, "", "Account to inspect (default unlocked account)")
	cmd.Flags().StringVar(&key, keyFlag, string(compound.KeyToken), "Key assets by \"token\" or \"ctoken\" symbol")

	return cmd
}
