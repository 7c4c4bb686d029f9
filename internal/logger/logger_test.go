package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("JSON output honours level", func(t *testing.T) {
		var buf bytes.Buffer
		SetupWithWriter("warn", "json", &buf)

		log.Info().Msg("hidden")
		log.Warn().Str("conversation_id", "c1").Msg("visible")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "visible", entry["message"])
		assert.Equal(t, "c1", entry["conversation_id"])
		assert.Equal(t, "mediai", entry["service"])
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
		assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
		assert.Equal(t, zerolog.ErrorLevel, parseLevel("ERROR"))
	})
}
