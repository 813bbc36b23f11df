package suggest

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"moviesuggest/internal/logging"
	"moviesuggest/internal/metrics"
	"moviesuggest/internal/services"
	"moviesuggest/internal/tmdb"
)

const (
	pipelineSuggest   = "suggest"
	pipelineTrending  = "trending"
	pipelinePopular   = "popular"
	pipelineProviders = "providers"
)

type dropReason string

const (
	dropNotFound   dropReason = "not_found"
	dropIncomplete dropReason = "incomplete"
	dropError      dropReason = "error"
)

// outcome is the result of enriching one index. A nil record means the item
// was dropped for reason; movieID is zero until the title resolved.
type outcome struct {
	record  *tmdb.Record
	movieID int64
	reason  dropReason
	err     error
}

type enrichFunc func(ctx context.Context, idx int) outcome

// enrichAll runs fn for every index on a bounded pool, writes each outcome to
// its own slot, waits for all of them, and compacts the survivors in index
// order. A failing index is logged and skipped; siblings keep running.
//
// When ctx ended while the batch ran, the per-item failures are a symptom of
// that, so the context error is returned instead of a short list.
func (s *Service) enrichAll(ctx context.Context, logger *slog.Logger, pipeline string, n int, fn enrichFunc, label func(int) string) ([]tmdb.Record, error) {
	if n == 0 {
		return []tmdb.Record{}, nil
	}
	slots := make([]*tmdb.Record, n)
	workers := pool.New().WithMaxGoroutines(min(s.maxConcurrency, n))
	for idx := 0; idx < n; idx++ {
		workers.Go(func() {
			res := fn(ctx, idx)
			if res.record != nil {
				slots[idx] = res.record
				return
			}
			s.logDrop(ctx, logger, pipeline, label(idx), res)
		})
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrMetadataProvider, pipeline, "enrich", "request ended before enrichment finished", err)
	}

	records := make([]tmdb.Record, 0, n)
	for _, record := range slots {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (s *Service) logDrop(ctx context.Context, logger *slog.Logger, pipeline, title string, res outcome) {
	reason := res.reason
	if res.err != nil {
		reason = dropError
	}
	metrics.RecordDropped(pipeline, string(reason))

	attrs := []logging.Attr{
		logging.String("pipeline", pipeline),
		logging.MovieTitle(title),
	}
	if res.movieID > 0 {
		attrs = append(attrs, logging.MovieID(res.movieID))
	}
	if res.err == nil {
		attrs = append(attrs, logging.String("reason", string(reason)))
		logger.LogAttrs(ctx, slog.LevelDebug, "candidate skipped", attrs...)
		return
	}
	if ctx.Err() != nil {
		// The whole batch is failing with the request; one line per item is noise.
		return
	}
	attrs = append(attrs,
		logging.Error(res.err),
		logging.String(logging.FieldErrorHint, "check TMDB availability and api key"),
		logging.String(logging.FieldImpact, "title omitted from results"),
	)
	logging.WarnWithContext(logger, "candidate dropped", "candidate_enrichment_failed", attrs...)
}
