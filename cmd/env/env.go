package env

import (
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the config resolved from the environment (secrets omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.PrintJSON(cmd.OutOrStdout(), config.DefaultSDKConfigFromEnv())
		},
	}
}
