package token

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/erc20"
	"github/chapool/dsa-connect/internal/util/command"
)

func newApprove() *cobra.Command {
	var req erc20.ApprovalRequest

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a spender for an ERC20 token",
		Long: `Approve --to to spend --amount of --token on behalf of the sender.

--amount is a raw base unit integer unless --convert is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithDSA(cmd.Context(), config.DefaultSDKConfigFromEnv(), func(ctx context.Context, d *dsa.DSA) error {
				res, err := erc20.NewService(d).Approve(ctx, &req)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), map[string]string{"result": res})
			})
		},
	}

	cmd.Flags().StringVar(&req.Token, tokenFlag, "", "Token symbol or address")
	cmd.Flags().StringVar(&req.Amount, amountFlag, "", "Allowance in base units")
	cmd.Flags().StringVar(&req.To, toFlag, "", "Spender")
	cmd.Flags().StringVar(&req.From, fromFlag, "", "Owner (default unlocked account)")
	cmd.Flags().StringVar(&req.GasPrice, gasPriceFlag, "", "Legacy gas price in wei (default EIP-1559 pricing)")
	cmd.Flags().Uint64Var(&req.Gas, gasFlag, 0, "Gas limit (default estimated)")
	cmd.Flags().BoolVar(&req.ConvertAmount, convertFlag, false, "Treat --amount as token units")

	return cmd
}
