package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jhoicas/Kardex-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "info").Component("trade")

	log.Info().Str("id", "v1").Msg("transacción registrada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "trade", entry["component"])
	assert.Equal(t, "v1", entry["id"])
	assert.Equal(t, "transacción registrada", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "warn")

	log.Info().Msg("no debe salir")
	log.Warn().Msg("sí debe salir")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "sí debe salir")
}

func TestNewWriter_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "verbose")

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}

func TestNew_DevelopmentUsaConsola(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "development", Level: "debug", Output: &buf})

	log.Debug().Msg("arrancando")

	out := buf.String()
	assert.Contains(t, out, "arrancando")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "la consola no emite JSON")
}

func TestNop_DescartaTodo(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Error().Str("k", "v").Msg("nada")
	})
}
