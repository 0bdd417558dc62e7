package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/LVRodrigues/fpa-management/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "PROD", "debug")
		log.Debug().Str("route", "/login").Msg("navigate")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "debug", line["level"])
		require.Equal(t, "/login", line["route"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "PROD", "warn")
		log.Info().Msg("hidden")
		require.Zero(t, buf.Len())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "PROD", "chatty")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("console writer in DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "DEV", "info")
		log.Info().Msg("hello")
		require.Contains(t, buf.String(), "hello")
		require.NotContains(t, buf.String(), `"message"`)
	})
}
