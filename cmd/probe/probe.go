package probe

import (
	"github.com/spf13/cobra"
	"github/chapool/dsa-connect/internal/util/command"
)

const (
	verboseFlag string = "verbose"
	timeoutFlag string = "timeout"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newReadiness(),
	)
}
