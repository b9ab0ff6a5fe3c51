package token

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/erc20"
	"github/chapool/dsa-connect/internal/util/command"
)

func newTransfer() *cobra.Command {
	var req erc20.TransferRequest

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer ETH or an ERC20 token",
		Long: `Transfer ETH or an ERC20 token and print the transaction hash.

--amount is in token units ("1.5") for tokens and in wei for ETH.
--to defaults to the DSA instance (DSA_INSTANCE_ADDRESS).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithDSA(cmd.Context(), config.DefaultSDKConfigFromEnv(), func(ctx context.Context, d *dsa.DSA) error {
				hash, err := erc20.NewService(d).Transfer(ctx, &req)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), map[string]string{"hash": hash.Hex()})
			})
		},
	}

	cmd.Flags().StringVar(&req.Token, tokenFlag, "", "Token symbol or address, \"eth\" for ether")
	cmd.Flags().StringVar(&req.Amount, amountFlag, "", "Amount to transfer")
	cmd.Flags().StringVar(&req.To, toFlag, "", "Receiver (default DSA instance)")
	cmd.Flags().StringVar(&req.From, fromFlag, "", "Sender (default unlocked account)")
	cmd.Flags().StringVar(&req.GasPrice, gasPriceFlag, "", "Legacy gas price in wei (default EIP-1559 pricing)")
	cmd.Flags().Uint64Var(&req.Gas, gasFlag, 0, "Gas limit (default estimated)")

	return cmd
}
