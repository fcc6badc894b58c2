package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/usgs-station-import/internal/domain"
	"github.com/couchcryptid/usgs-station-import/internal/observability"
)

// Extractor opens the source row stream.
type Extractor interface {
	Extract(ctx context.Context) (domain.RowStream, error)
}

// Loader receives each accepted station, in source order.
type Loader interface {
	Load(ctx context.Context, s domain.Station) error
}

// Flusher is implemented by loaders that buffer and must be flushed once the
// stream is exhausted.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Summary counts what one run saw.
type Summary struct {
	Rows               int
	Accepted           int
	RejectedFieldCount int
	RejectedAgency     int
}

// Pipeline runs the fetch, filter, emit sequence once.
type Pipeline struct {
	extractor Extractor
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Loaders receive every accepted station in the order given.
func New(e Extractor, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Pipeline {
	return &Pipeline{
		extractor: e,
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run fetches the station list and streams every accepted row to the loaders.
// The first fetch, read, or load error aborts the run; rejected rows are not errors.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	rows, err := p.extractor.Extract(ctx)
	if err != nil {
		return sum, fmt.Errorf("extract: %w", err)
	}
	defer rows.Close()

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("read row %d: %w", sum.Rows+1, err)
		}

		station, ok := p.filter(&sum, row)
		if !ok {
			continue
		}
		if err := p.load(ctx, station); err != nil {
			return sum, err
		}
		sum.Accepted++
		p.metrics.StationsEmitted.Inc()
	}

	if err := p.flush(ctx); err != nil {
		return sum, err
	}

	p.metrics.RunDuration.Set(time.Since(start).Seconds())
	p.metrics.LastSuccess.SetToCurrentTime()
	p.logger.Info("station import complete",
		"rows", sum.Rows,
		"stations", sum.Accepted,
		"duration", time.Since(start),
	)
	return sum, nil
}

// filter counts the row and applies the acceptance predicate.
func (p *Pipeline) filter(sum *Summary, row domain.RawRow) (domain.Station, bool) {
	sum.Rows++
	p.metrics.RowsRead.Inc()

	station, verdict := domain.Evaluate(row)
	switch verdict {
	case domain.Accepted:
		return station, true
	case domain.RejectedFieldCount:
		sum.RejectedFieldCount++
	case domain.RejectedAgency:
		sum.RejectedAgency++
	}
	p.metrics.RowsRejected.WithLabelValues(verdict.String()).Inc()
	return domain.Station{}, false
}

func (p *Pipeline) load(ctx context.Context, s domain.Station) error {
	for _, l := range p.loaders {
		if err := l.Load(ctx, s); err != nil {
			return fmt.Errorf("load station %s: %w", s.ID, err)
		}
	}
	return nil
}

func (p *Pipeline) flush(ctx context.Context) error {
	for _, l := range p.loaders {
		f, ok := l.(Flusher)
		if !ok {
			continue
		}
		if err := f.Flush(ctx); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}
	return nil
}
