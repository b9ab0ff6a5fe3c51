package config

import "fmt"

// The following vars are set via -ldflags at build time.
var (
	ModuleName = "dsa-connect"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "1970-01-01-00:00:00"
)

// GetFormattedBuildArgs returns the version banner printed by --version.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
