package persist

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/00001_combat_log.sql"}, files)

	raw, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "-- +goose Down")
}

func TestGooseOutputGoesToDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := gooseLogger{s: zap.New(core).Sugar()}
	l.Printf("OK   %s (%s)\n", "00001_combat_log.sql", "3ms")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "OK   00001_combat_log.sql (3ms)", entries[0].Message)
}
