package probe

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/util/command"
)

type nodeStatus struct {
	URL     string `json:"url"`
	ChainID int64  `json:"chainId,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newReadiness() *cobra.Command {
	var (
		verbose bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks every configured RPC node, fails if none answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultSDKConfigFromEnv()
			config.SetupLogger(cfg.Logger)

			statuses := make([]nodeStatus, 0, len(cfg.Chain.RPCURLs))
			healthy := 0

			for _, url := range cfg.Chain.RPCURLs {
				status := checkNode(cmd.Context(), url, timeout)
				if status.Error == "" {
					healthy++
				} else {
					log.Warn().Str("url", url).Str("err", status.Error).Msg("RPC node is not ready")
				}
				statuses = append(statuses, status)
			}

			if verbose {
				if err := command.PrintJSON(cmd.OutOrStdout(), statuses); err != nil {
					return err
				}
			}

			if healthy == 0 {
				return errors.New("no RPC node is ready")
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Print the status of every node")
	cmd.Flags().DurationVar(&timeout, timeoutFlag, 5*time.Second, "Timeout per node")

	return cmd
}

func checkNode(ctx context.Context, url string, timeout time.Duration) nodeStatus {
	status := nodeStatus{URL: url}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.ChainID = chainID.Int64()

	return status
}
