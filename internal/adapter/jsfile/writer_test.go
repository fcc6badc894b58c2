package jsfile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/usgs-station-import/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 9, 0, 0, 0, time.Local)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func writeStations(t *testing.T, dir string, stations ...domain.Station) string {
	t.Helper()
	w, err := Create(dir, discardLogger())
	require.NoError(t, err)
	for _, s := range stations {
		require.NoError(t, w.Load(context.Background(), s))
	}
	require.NoError(t, w.Close())
	return w.Path()
}

func TestCreate_WritesDatedModule(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()

	path := writeStations(t, dir,
		domain.Station{ID: "01234567", Name: "EXAMPLE CREEK"},
		domain.Station{ID: "02043433", Name: "ELIZABETH RIVER AT NORFOLK, VA"},
	)

	assert.Equal(t, filepath.Join(dir, "2024-04-26_usgs-stations.js"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`{id:"01234567", name:"EXAMPLE CREEK", "water_level_endpoint":USGS_WL_ENDPOINT, "water_level_callback":USGS_WL_CALLBACK },`+"\n"+
			`{id:"02043433", name:"ELIZABETH RIVER AT NORFOLK, VA", "water_level_endpoint":USGS_WL_ENDPOINT, "water_level_callback":USGS_WL_CALLBACK },`+"\n",
		string(data),
	)
}

func TestCreate_EmptyRunLeavesEmptyFile(t *testing.T) {
	freezeClock(t)

	path := writeStations(t, t.TempDir())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCreate_SameDayRerunOverwrites(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()
	s := domain.Station{ID: "01234567", Name: "EXAMPLE CREEK"}

	first := writeStations(t, dir, s)
	firstData, err := os.ReadFile(first)
	require.NoError(t, err)

	second := writeStations(t, dir, s)
	secondData, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstData, secondData)
}

func TestCreate_MissingDirectory(t *testing.T) {
	freezeClock(t)
	_, err := Create(filepath.Join(t.TempDir(), "missing"), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create station module")
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	freezeClock(t)
	w, err := Create(t.TempDir(), discardLogger())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWriter_FlushMakesLinesVisible(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf, io.NopCloser(nil), "mem", discardLogger())

	require.NoError(t, w.Load(context.Background(), domain.Station{ID: "1", Name: "A"}))
	assert.Empty(t, buf.String())

	require.NoError(t, w.Flush(context.Background()))
	assert.Contains(t, buf.String(), `{id:"1", name:"A"`)
	assert.Equal(t, 1, w.Lines())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("bad descriptor") }

func TestWriter_CloseReportsFlushAndCloseErrors(t *testing.T) {
	w := newWriter(failingWriter{}, failingCloser{}, "broken.js", discardLogger())
	require.NoError(t, w.Load(context.Background(), domain.Station{ID: "1", Name: "A"}))

	err := w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "bad descriptor")
}
