package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"menupick-admin-worker/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInitWritesChannelFile(t *testing.T) {
	dir := t.TempDir()
	var config structs.EnviromentModel
	config.Log.Dir = dir

	var service LogService
	logger := service.LoggerInit(&config, "ingest")
	logger.WithField("task", "ingest").Info("hello")

	raw, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02"), "ingest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello")
	assert.Contains(t, string(raw), "task=ingest")
}
