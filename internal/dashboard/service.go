// Package dashboard serves region/year selections against the loaded wildfire dataset.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
)

// Publisher emits computed reports to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, report domain.Report) error
}

// Service evaluates selections. The dataset is shared read-only, so a
// Service is safe for concurrent use.
type Service struct {
	dataset   *domain.Dataset
	defaults  domain.Selection
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service. Pass a nil publisher to disable report publishing.
func NewService(ds *domain.Dataset, defaults domain.Selection, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		dataset:   ds,
		defaults:  defaults,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Summarize evaluates sel and publishes the resulting report. Publishing
// failures are logged and counted but never surface to the caller.
func (s *Service) Summarize(ctx context.Context, sel domain.Selection) domain.Report {
	report := s.Evaluate(sel)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, report); err != nil {
			s.metrics.PublishErrors.Inc()
			s.logger.Warn("publish report failed", "error", err, "selection", sel.Key())
		} else {
			s.metrics.ReportsPublished.Inc()
		}
	}

	return report
}

// Evaluate recomputes both monthly aggregates for sel without publishing.
// Chart requests use it so a single page view publishes once.
func (s *Service) Evaluate(sel domain.Selection) domain.Report {
	start := time.Now()
	report := domain.NewReport(s.dataset, sel)
	s.metrics.ComputeDuration.Observe(time.Since(start).Seconds())

	outcome := "match"
	if report.Empty() {
		outcome = "empty"
	}
	s.metrics.Selections.WithLabelValues(outcome).Inc()
	s.logger.Debug("selection evaluated",
		"region", sel.Region,
		"year", sel.Year,
		"records", report.Records,
		"months", report.FireArea.Len(),
	)

	return report
}

// Years returns the years offered by the year selector, ascending.
func (s *Service) Years() []int { return s.dataset.Years() }

// Regions returns a copy of the regions offered by the region selector.
func (s *Service) Regions() []domain.Region { return slices.Clone(domain.Regions) }

// DefaultSelection is the selection shown before the user picks anything.
// A configured year missing from the dataset falls back to the earliest year.
func (s *Service) DefaultSelection() domain.Selection {
	sel := s.defaults
	if !s.dataset.HasYear(sel.Year) {
		if years := s.dataset.Years(); len(years) > 0 {
			sel.Year = years[0]
		}
	}
	return sel
}

// CheckReadiness returns nil once a non-empty dataset is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.dataset == nil || s.dataset.Len() == 0 {
		return errors.New("dataset not loaded")
	}
	return nil
}
