package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lims.log")
	Init(&LogConfig{
		Path:     path,
		LogLevel: "info",
		ServiceEnv: ServiceEnv{
			Platform: "lims",
			Service:  "api",
			Env:      "test",
		},
	})

	Debugf(context.Background(), "hidden %d", 1)
	Infof(context.Background(), "order %d submitted", 42)
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order 42 submitted")
	assert.Contains(t, string(data), `"service":"api"`)
	assert.NotContains(t, string(data), "hidden 1")
}
