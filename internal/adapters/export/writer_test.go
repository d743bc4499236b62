package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/chatstat/internal/ports"
)

func testReport() *ports.Report {
	s := 0.5
	return &ports.Report{
		Global: &ports.GlobalStats{
			RunID:        "run-1",
			MessageCount: 3,
			TopWords:     []ports.Count{{Key: "café", Count: 2}},
		},
		Users: []*ports.UserStats{
			{UserID: 42, Name: "Zoë <admin>", MessageCount: 3, MediaRatio: 0.25, Sentiment: &s,
				TopWords: []ports.Count{{Key: "apple", Count: 2}}},
			{UserID: 7, Name: "Bob", Outlier: true},
		},
	}
}

func TestWriter_WritesAllFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := NewWriter(dir).Write(testReport())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, GlobalStatsFile),
		filepath.Join(dir, UserStatsFile),
		filepath.Join(dir, UserStatsCSV),
	}, paths)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriter_GlobalJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir).Write(testReport())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, GlobalStatsFile))
	require.NoError(t, err)

	assert.Contains(t, string(data), "café", "non-ASCII kept")
	assert.Contains(t, string(data), "\n    \"run_id\": \"run-1\"", "four-space indent")

	var g ports.GlobalStats
	require.NoError(t, json.Unmarshal(data, &g))
	assert.Equal(t, 3, g.MessageCount)
}

func TestWriter_UserJSONKeyedByID(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir).Write(testReport())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, UserStatsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Zoë <admin>", "no HTML escaping")

	var users map[string]ports.UserStats
	require.NoError(t, json.Unmarshal(data, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "Bob", users["7"].Name)
	assert.True(t, users["7"].Outlier)
	require.NotNil(t, users["42"].Sentiment)
	assert.Equal(t, 0.5, *users["42"].Sentiment)
}

func TestMarshalCSV(t *testing.T) {
	data, err := MarshalCSV(testReport().Users)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	col := func(name string) int {
		for i, h := range csvHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %q", name)
		return -1
	}

	assert.Equal(t, "42", rows[1][col("user_id")])
	assert.Equal(t, "0.25", rows[1][col("media_ratio")])
	assert.Equal(t, "0.5", rows[1][col("sentiment")])
	assert.Equal(t, `[{"key":"apple","count":2}]`, rows[1][col("top_words")])
	assert.Equal(t, "", rows[2][col("sentiment")])
	assert.Equal(t, "true", rows[2][col("outlier")])
	assert.Equal(t, "null", rows[2][col("top_words")])
}

func TestWriter_EmptyReport(t *testing.T) {
	_, err := NewWriter(t.TempDir()).Write(&ports.Report{})
	assert.Error(t, err)
}

func TestMarshalJSON_TrailingNewline(t *testing.T) {
	data, err := MarshalJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}
