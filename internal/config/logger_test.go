package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/config"
)

func TestSetupLoggerFile(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "dsa.log")
	config.SetupLogger(config.Logger{
		Level:      zerolog.InfoLevel,
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})

	log.Debug().Msg("hidden")
	log.Info().Str("component", "test").Msg("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written"`)
	assert.NotContains(t, string(data), "hidden")
}
