package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Console(&buf, "warn")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleInvalidLevel(t *testing.T) {
	_, err := Console(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "restchat.log")

	logger, closer, err := File(path, "debug")
	require.NoError(t, err)
	logger.Debug().Str("path", "/health").Msg("request completed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path":"/health"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestFileEmptyPath(t *testing.T) {
	_, closer, err := File("", "info")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}
