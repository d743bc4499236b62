package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/corey/chatstat/internal/config"
)

// fixtureLines: Ann posts twice (one reacted to by Bob, one with media and
// curses), Bob posts once, plus one service message.
var fixtureLines = []string{
	`{"id":1,"sender":{"id":10,"first_name":"Ann"},"date":"2024-03-01T10:00:00Z","text":"I love the USA and the United States","reactions":[{"user_id":20,"emoji":"👍"}]}`,
	`{"id":2,"sender":{"id":10,"first_name":"Ann"},"date":"2024-03-01T11:00:00Z","text":"damn DAMN","media":true}`,
	`{"id":3,"sender":{"id":20,"first_name":"Bob"},"date":"2024-03-02T09:00:00Z","text":"apple pie and an apple"}`,
	`{"id":4,"type":"service","date":"2024-03-02T09:30:00Z"}`,
}

func testSettings(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Chat.ID = "test"
	cfg.Outliers.Enabled = false
	cfg.Ranking.ByRatio = false
	require.NoError(t, cfg.Validate())
	return cfg
}

func writeExport(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(Config{Settings: cfg, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}
