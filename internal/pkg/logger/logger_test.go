package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"worksync/internal/pkg/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worksync.log")

	l, ws, err := New(&config.LogConfig{Level: "warn", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", zap.Int64("teamId", 7))
	(&LogWriter{ws}).Printf("[%dms] %s", 3, "SELECT 1")
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"teamId":7`)
	assert.Contains(t, out, "[3ms] SELECT 1\n")
}

func TestNew_BadFilePath(t *testing.T) {
	_, _, err := New(&config.LogConfig{Output: "file", FilePath: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
