package config

const (
	defaultServerBind             = "127.0.0.1:3001"
	defaultRateLimitRequests      = 30
	defaultRateLimitWindowSeconds = 60
	defaultTMDBBaseURL            = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL       = "https://image.tmdb.org/t/p"
	defaultTMDBRequestsPerSecond  = 40
	defaultGeminiBaseURL          = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel            = "gemini-2.0-flash"
	defaultGeminiTemperature      = 0.7
	defaultGeminiMaxOutputTokens  = 512
	defaultGeminiBreakerFailures  = 5
	defaultGeminiBreakerCooldown  = 30
	defaultSuggestMaxConcurrency  = 8
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogMaxSizeMB           = 50
	defaultLogMaxBackups          = 3
	defaultLogMaxAgeDays          = 14
)

// Default returns a Config populated with repository defaults. API keys and
// prompt templates have no defaults and must be supplied.
func Default() Config {
	return Config{
		Server: Server{
			Bind:                   defaultServerBind,
			CORSOrigins:            []string{"*"},
			RateLimitRequests:      defaultRateLimitRequests,
			RateLimitWindowSeconds: defaultRateLimitWindowSeconds,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			RequestsPerSecond: defaultTMDBRequestsPerSecond,
		},
		Gemini: Gemini{
			BaseURL:                defaultGeminiBaseURL,
			Model:                  defaultGeminiModel,
			Temperature:            defaultGeminiTemperature,
			MaxOutputTokens:        defaultGeminiMaxOutputTokens,
			BreakerFailures:        defaultGeminiBreakerFailures,
			BreakerCooldownSeconds: defaultGeminiBreakerCooldown,
		},
		Suggest: Suggest{
			MaxConcurrency: defaultSuggestMaxConcurrency,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
