package logger

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGinLoggerImplementsWriter(t *testing.T) {
	log := NewNopLogger()

	var w io.Writer = log.GetGinLogger()
	n, err := w.Write([]byte("[GIN-debug] GET /health\n"))
	require.NoError(t, err)
	assert.Equal(t, 24, n)
}

func TestGetRetryableHTTPLogger(t *testing.T) {
	log := NewNopLogger()

	rl := log.GetRetryableHTTPLogger()
	require.NotNil(t, rl)
	rl.Printf("retrying %s", "/send")
}
