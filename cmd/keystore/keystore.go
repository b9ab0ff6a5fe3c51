package keystore

import (
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/util/command"
)

const (
	pathFlag           string = "path"
	derivationPathFlag string = "derivation-path"
	lightFlag          string = "light"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("keystore",
		newCreate(),
		newAddress(),
	)
}
