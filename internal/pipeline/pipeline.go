package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
)

// Extractor reads the raw dataset rows from the source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawRecord, error)
}

// Transformer derives a Record from a raw row.
type Transformer interface {
	Transform(raw domain.RawRecord) (domain.Record, error)
}

// TransformFunc adapts a function to Transformer.
type TransformFunc func(raw domain.RawRecord) (domain.Record, error)

// Transform calls f(raw).
func (f TransformFunc) Transform(raw domain.RawRecord) (domain.Record, error) { return f(raw) }

// DeriveCalendarFields is the default Transformer: it derives Month and Year from Date.
var DeriveCalendarFields Transformer = TransformFunc(domain.ParseRecord)

// ErrEmptyDataset is returned when the source yields no rows.
var ErrEmptyDataset = errors.New("dataset has no records")

// Pipeline performs the one-shot extract-transform-load of the wildfire dataset.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		logger:      logger,
		metrics:     metrics,
	}
}

// Load extracts every row, derives the calendar fields and returns the
// read-only Dataset. Any row that fails to transform aborts the load.
func (p *Pipeline) Load(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()

	raws, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract dataset: %w", err)
	}
	if len(raws) == 0 {
		return nil, ErrEmptyDataset
	}

	records := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := p.transformer.Transform(raw)
		if err != nil {
			return nil, fmt.Errorf("transform dataset: %w", err)
		}
		records = append(records, rec)
	}

	ds := domain.NewDataset(records)
	elapsed := time.Since(start)

	p.metrics.DatasetRecords.Set(float64(ds.Len()))
	p.metrics.DatasetLoadDuration.Observe(elapsed.Seconds())
	p.logger.Info("dataset loaded",
		"records", ds.Len(),
		"years", len(ds.Years()),
		"regions", ds.Regions(),
		"duration", elapsed,
	)
	return ds, nil
}
