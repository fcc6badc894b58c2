package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/usgs-station-import/internal/adapter/sqlite"
	"github.com/couchcryptid/usgs-station-import/internal/config"
	"github.com/couchcryptid/usgs-station-import/internal/domain"
	"github.com/couchcryptid/usgs-station-import/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationList = "# US Geological Survey\n" +
	"agency_cd\tsite_no\tstation_nm\n" +
	"5s\t15s\t50s\n" +
	"USGS\t01234567\tEXAMPLE CREEK\n" +
	"NOAA\t8638610\tSEWELLS POINT\n" +
	"USGS\t02043433\tELIZABETH RIVER AT NORFOLK, VA\t3.1\n" +
	"USGS\t02043410\tLAFAYETTE RIVER AT NORFOLK, VA\n"

const wantModule = `{id:"01234567", name:"EXAMPLE CREEK", "water_level_endpoint":USGS_WL_ENDPOINT, "water_level_callback":USGS_WL_CALLBACK },` + "\n" +
	`{id:"02043410", name:"LAFAYETTE RIVER AT NORFOLK, VA", "water_level_endpoint":USGS_WL_ENDPOINT, "water_level_callback":USGS_WL_CALLBACK },` + "\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 6, 30, 0, 0, time.Local)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func stationServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url, dir string) *config.Config {
	return &config.Config{
		StationsURL:    url,
		OutputDir:      dir,
		LogLevel:       "info",
		LogFormat:      "json",
		KafkaTopic:     "usgs-stations",
		KafkaBatchSize: 100,
	}
}

func TestRun_WritesStationModule(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()
	srv := stationServer(t, http.StatusOK, stationList)

	err := run(context.Background(), testConfig(srv.URL, dir), discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "2024-04-26_usgs-stations.js"))
	require.NoError(t, err)
	assert.Equal(t, wantModule, string(data))
}

func TestRun_SameDayRerunIsByteIdentical(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()
	srv := stationServer(t, http.StatusOK, stationList)
	cfg := testConfig(srv.URL, dir)
	path := filepath.Join(dir, "2024-04-26_usgs-stations.js")

	require.NoError(t, run(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, run(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_FetchFailureLeavesTruncatedModule(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "2024-04-26_usgs-stations.js")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	srv := stationServer(t, http.StatusInternalServerError, "boom")

	err := run(context.Background(), testConfig(srv.URL, dir), discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Zero(t, info.Size())
}

func TestRun_WithCatalogAndMetricsTextfile(t *testing.T) {
	freezeClock(t)
	dir := t.TempDir()
	srv := stationServer(t, http.StatusOK, stationList)

	cfg := testConfig(srv.URL, dir)
	cfg.SQLitePath = filepath.Join(dir, "stations.db")
	cfg.MetricsTextfile = filepath.Join(dir, "usgs_import.prom")

	require.NoError(t, run(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting()))

	catalog, err := sqlite.Open(cfg.SQLitePath, discardLogger())
	require.NoError(t, err)
	defer catalog.Close()

	entries, err := catalog.Stations(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "01234567", entries[0].ID)
	assert.Equal(t, "02043410", entries[1].ID)

	prom, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "usgs_import_rows_read_total 7")
	assert.Contains(t, string(prom), "usgs_import_stations_emitted_total 2")
	assert.Contains(t, string(prom), `usgs_import_rows_rejected_total{reason="field_count"} 2`)
	assert.Contains(t, string(prom), `usgs_import_rows_rejected_total{reason="agency"} 3`)
}

func TestRun_MissingOutputDir(t *testing.T) {
	freezeClock(t)
	srv := stationServer(t, http.StatusOK, stationList)

	err := run(context.Background(), testConfig(srv.URL, filepath.Join(t.TempDir(), "missing")), discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
}
