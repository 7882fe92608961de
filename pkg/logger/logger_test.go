package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sites-hotels-dashboard/pkg/logger"
)

func TestNew_ProduccionEscribeJSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	sub := l.Component("backend")
	sub.Debug().Str("path", "/dashboard/metrics/").Msg("consulta")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "backend", entry["component"])
	assert.Equal(t, "/dashboard/metrics/", entry["path"])
	assert.Equal(t, "consulta", entry["message"])
}

// Un nivel desconocido cae a info: debug no se escribe.
func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verboso", Output: &buf})

	l.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())

	l.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
