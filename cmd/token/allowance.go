package token

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/erc20"
	"github/chapool/dsa-connect/internal/util/command"
)

func newAllowance() *cobra.Command {
	var query erc20.AllowanceQuery

	cmd := &cobra.Command{
		Use:   "allowance",
		Short: "Print the raw allowance of a spender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithDSA(cmd.Context(), config.DefaultSDKConfigFromEnv(), func(ctx context.Context, d *dsa.DSA) error {
				res, err := erc20.NewService(d).GetAllowance(ctx, &query)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), map[string]string{"allowance": res})
			})
		},
	}

	cmd.Flags().StringVar(&query.Token, tokenFlag, "", "Token symbol or address")
	cmd.Flags().StringVar(&query.To, toFlag, "", "Spender")
	cmd.Flags().StringVar(&query.From, fromFlag, "", "Owner (default unlocked account)")

	return cmd
}
