package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/cmd/compound"
	"github/chapool/dsa-connect/cmd/env"
	"github/chapool/dsa-connect/cmd/instapool"
	"github/chapool/dsa-connect/cmd/keystore"
	"github/chapool/dsa-connect/cmd/probe"
	"github/chapool/dsa-connect/cmd/token"
	"github/chapool/dsa-connect/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "dsa",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Transfers and approves ETH and ERC20 tokens and reads lending positions
for a DeFi Smart Account. Requires configuration through ENV (DSA_*).`, config.ModuleName),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		compound.New(),
		env.New(),
		instapool.New(),
		keystore.New(),
		probe.New(),
		token.New(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
