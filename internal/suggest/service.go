package suggest

import (
	"context"
	"log/slog"
	"time"

	"moviesuggest/internal/locale"
	"moviesuggest/internal/logging"
	"moviesuggest/internal/metrics"
	"moviesuggest/internal/providers"
	"moviesuggest/internal/services"
	"moviesuggest/internal/tmdb"
)

const defaultMaxConcurrency = 8

// Metadata is the subset of the movie metadata client used by the pipeline.
type Metadata interface {
	SearchMovie(ctx context.Context, title, language string) (*tmdb.Movie, error)
	Trailer(ctx context.Context, movieID int64, language string) (*tmdb.Video, error)
	Trending(ctx context.Context, window tmdb.TimeWindow, language string) ([]tmdb.Movie, error)
	Popular(ctx context.Context, language string) ([]tmdb.Movie, error)
	WatchProviders(ctx context.Context, movieID int64, country string) (*tmdb.ProviderBundle, error)
	FormatDetails(movie tmdb.Movie, trailer *tmdb.Video) tmdb.Record
}

// Recommender produces candidate titles from free-text preferences.
type Recommender interface {
	Recommend(ctx context.Context, preferences string, loc locale.Locale) ([]string, error)
}

// Service orchestrates recommendation and per-title enrichment.
type Service struct {
	metadata       Metadata
	recommender    Recommender
	formatter      providers.Formatter
	maxConcurrency int
	logger         *slog.Logger
}

// Option customizes the service.
type Option func(*Service)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxConcurrency bounds the number of titles enriched at once.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithProviderFormatter overrides how provider bundles are flattened.
func WithProviderFormatter(f providers.Formatter) Option {
	return func(s *Service) {
		s.formatter = f
	}
}

// NewService wires the pipeline.
func NewService(metadata Metadata, recommender Recommender, opts ...Option) *Service {
	s := &Service{
		metadata:       metadata,
		recommender:    recommender,
		maxConcurrency: defaultMaxConcurrency,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "suggest")
	return s
}

// Suggest resolves the model's candidate titles into complete records in
// candidate order. It fails with services.ErrNoResults when nothing survives.
func (s *Service) Suggest(ctx context.Context, preferences string, loc locale.Locale) (records []tmdb.Record, err error) {
	start := time.Now()
	defer func() { metrics.RecordPipelineRun(pipelineSuggest, len(records), time.Since(start), err) }()
	logger := logging.WithContext(ctx, s.logger)

	candidates, err := s.recommender.Recommend(ctx, preferences, loc)
	if err != nil {
		return nil, err
	}

	language := loc.Language()
	records, err = s.enrichAll(ctx, logger, pipelineSuggest, len(candidates), func(ctx context.Context, idx int) outcome {
		movie, err := s.metadata.SearchMovie(ctx, candidates[idx], language)
		if err != nil {
			return outcome{err: err}
		}
		if movie == nil {
			return outcome{reason: dropNotFound}
		}
		return s.detail(ctx, *movie, language)
	}, func(idx int) string { return candidates[idx] })
	if err != nil {
		return nil, err
	}

	logger.Info("suggestions resolved",
		logging.Int("candidate_count", len(candidates)),
		logging.Int("result_count", len(records)),
		logging.Duration("duration", time.Since(start)),
	)
	if len(records) == 0 {
		return nil, services.Wrap(services.ErrNoResults, "suggest", "", "no complete movie records for these preferences", nil)
	}
	return records, nil
}

// Trending enriches the trending listing. An empty result is not an error.
func (s *Service) Trending(ctx context.Context, window tmdb.TimeWindow, loc locale.Locale) (records []tmdb.Record, err error) {
	start := time.Now()
	defer func() { metrics.RecordPipelineRun(pipelineTrending, len(records), time.Since(start), err) }()

	movies, err := s.metadata.Trending(ctx, window, loc.Language())
	if err != nil {
		return nil, err
	}
	return s.enrichListing(ctx, pipelineTrending, movies, loc)
}

// Popular enriches the popular listing. An empty result is not an error.
func (s *Service) Popular(ctx context.Context, loc locale.Locale) (records []tmdb.Record, err error) {
	start := time.Now()
	defer func() { metrics.RecordPipelineRun(pipelinePopular, len(records), time.Since(start), err) }()

	movies, err := s.metadata.Popular(ctx, loc.Language())
	if err != nil {
		return nil, err
	}
	return s.enrichListing(ctx, pipelinePopular, movies, loc)
}

// Providers returns the watch offers for movieID in country. A movie without
// regional data yields an empty list.
func (s *Service) Providers(ctx context.Context, movieID int64, country string) (offers []providers.Offer, err error) {
	start := time.Now()
	defer func() { metrics.RecordPipelineRun(pipelineProviders, len(offers), time.Since(start), err) }()

	bundle, err := s.metadata.WatchProviders(ctx, movieID, country)
	if err != nil {
		return nil, err
	}
	return s.formatter.Format(bundle), nil
}

func (s *Service) enrichListing(ctx context.Context, pipeline string, movies []tmdb.Movie, loc locale.Locale) ([]tmdb.Record, error) {
	logger := logging.WithContext(ctx, s.logger)
	language := loc.Language()
	records, err := s.enrichAll(ctx, logger, pipeline, len(movies), func(ctx context.Context, idx int) outcome {
		return s.detail(ctx, movies[idx], language)
	}, func(idx int) string { return movies[idx].Title })
	if err != nil {
		return nil, err
	}
	logger.Debug("listing enriched",
		logging.String("pipeline", pipeline),
		logging.Int("candidate_count", len(movies)),
		logging.Int("result_count", len(records)),
	)
	return records, nil
}

// detail fetches the trailer for a resolved movie and formats the record.
func (s *Service) detail(ctx context.Context, movie tmdb.Movie, language string) outcome {
	trailer, err := s.metadata.Trailer(ctx, movie.ID, language)
	if err != nil {
		return outcome{movieID: movie.ID, err: err}
	}
	record := s.metadata.FormatDetails(movie, trailer)
	if !record.Complete() {
		return outcome{movieID: movie.ID, reason: dropIncomplete}
	}
	return outcome{record: &record, movieID: movie.ID}
}
