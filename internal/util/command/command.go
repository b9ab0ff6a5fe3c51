package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
)

// WithDSA validates cfg, wires a DSA context and runs f with it. The context
// is torn down when f returns. A keystore without a configured password is
// unlocked through a terminal prompt.
func WithDSA(ctx context.Context, cfg config.SDK, f func(ctx context.Context, d *dsa.DSA) error) error {
	return WithDSAPrompt(ctx, cfg, account.PromptPassword, f)
}

// WithDSAPrompt is WithDSA with a custom password source.
func WithDSAPrompt(ctx context.Context, cfg config.SDK, prompt account.PasswordFunc, f func(ctx context.Context, d *dsa.DSA) error) error {
	config.SetupLogger(cfg.Logger)

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	d, cleanup, err := dsa.InitDSA(ctx, cfg, prometheus.DefaultRegisterer, prompt)
	if err != nil {
		return errors.Wrap(err, "failed to initialize DSA context")
	}
	defer cleanup()

	return f(ctx, d)
}

// NewSubcommandGroup returns a command that only groups subcommands and
// prints its help when called directly.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <subcommand>", name),
		Short: fmt.Sprintf("%s related subcommands", name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode output")
	}

	return nil
}
