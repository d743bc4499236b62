package transcript

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2024, 3, 1, 22, 30, 5, 0, time.UTC)

func TestSink_PlainLines(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Options{})
	require.NoError(t, s.WriteLine(at, "Ann", "hello https://x.io"))
	require.NoError(t, s.WriteLine(at, "Bob", "two\nlines"))
	require.NoError(t, s.Close())

	assert.Equal(t, "<Ann> hello https://x.io\n<Bob> two lines\n", buf.String())
}

func TestSink_DatedLinesUseLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	var buf bytes.Buffer
	s := New(&buf, Options{ShowDate: true, Location: loc})
	require.NoError(t, s.WriteLine(at, "Ann", "hi"))
	require.NoError(t, s.Close())

	assert.Equal(t, "[ 2024-03-01 23:30:05 ] <Ann> hi\n", buf.String())
}

func TestCreate_TruncatesExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "channel.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale line\n"), 0o644))

	s, err := Create(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.WriteLine(at, "Ann", "fresh"))
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<Ann> fresh\n", string(data))
}
