package instapool

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/instapool"
	"github/chapool/dsa-connect/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("instapool",
		newLiquidity(),
	)
}

func newLiquidity() *cobra.Command {
	return &cobra.Command{
		Use:   "liquidity",
		Short: "Print the liquidity currently available in the InstaPool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithDSA(cmd.Context(), config.DefaultSDKConfigFromEnv(), func(ctx context.Context, d *dsa.DSA) error {
				liquidity, err := instapool.NewService(d).GetLiquidity(ctx)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), liquidity)
			})
		},
	}
}
