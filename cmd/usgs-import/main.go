// Command usgs-import fetches the USGS ocean, estuary and stream station list
// and writes it as the dated station module (<YYYY-MM-DD>_usgs-stations.js)
// read by the Nav-O assistant.
//
// It takes no arguments. Optional sinks and overrides are read from the
// environment; see internal/config.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/usgs-station-import/internal/adapter/jsfile"
	kafkaadapter "github.com/couchcryptid/usgs-station-import/internal/adapter/kafka"
	"github.com/couchcryptid/usgs-station-import/internal/adapter/sqlite"
	"github.com/couchcryptid/usgs-station-import/internal/adapter/usgs"
	"github.com/couchcryptid/usgs-station-import/internal/config"
	"github.com/couchcryptid/usgs-station-import/internal/observability"
	"github.com/couchcryptid/usgs-station-import/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger, metrics)
	stop()

	if err != nil {
		logger.Error("station import failed", "error", err)
		os.Exit(1)
	}
}

// run opens the station module before fetching, so a failed fetch still
// leaves today's file truncated. Every opened sink is closed on return.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (err error) {
	if cfg.MetricsTextfile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
				err = errors.Join(err, werr)
			}
		}()
	}

	module, err := jsfile.Create(cfg.OutputDir, logger)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, module.Close()) }()

	loaders := []pipeline.Loader{module}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() { err = errors.Join(err, writer.Close()) }()
		loaders = append(loaders, writer)
		logger.Info("kafka station sink enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	if cfg.SQLitePath != "" {
		catalog, openErr := sqlite.Open(cfg.SQLitePath, logger)
		if openErr != nil {
			return openErr
		}
		defer func() { err = errors.Join(err, catalog.Close()) }()
		loaders = append(loaders, catalog)
	}

	client := usgs.NewClient(cfg.StationsURL, cfg.FetchTimeout, logger, metrics)
	p := pipeline.New(client, logger, metrics, loaders...)

	_, err = p.Run(ctx)
	return err
}
