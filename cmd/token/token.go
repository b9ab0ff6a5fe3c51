package token

import (
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/util/command"
)

const (
	tokenFlag    string = "token"
	amountFlag   string = "amount"
	toFlag       string = "to"
	fromFlag     string = "from"
	gasPriceFlag string = "gas-price"
	gasFlag      string = "gas"
	convertFlag  string = "convert"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("token",
		newTransfer(),
		newApprove(),
		newAllowance(),
	)
}
