package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"moviesuggest/internal/locale"
	"moviesuggest/internal/logging"
	"moviesuggest/internal/services"
	"moviesuggest/internal/tmdb"
)

const (
	maxBodyBytes       = 64 << 10
	maxPreferenceRunes = 2000
)

var validate = validator.New()

type handlers struct {
	service Service
	logger  *slog.Logger
}

// suggestRequest accepts both the field names used by the web client and the
// older query/language pair.
type suggestRequest struct {
	Query    string `json:"query"`
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

type suggestInput struct {
	Preferences string `validate:"required"`
	Language    string `validate:"omitempty,max=35"`
}

func (req suggestRequest) input() suggestInput {
	return suggestInput{
		Preferences: firstNonBlank(req.Query, req.Prompt),
		Language:    firstNonBlank(req.Language, req.Locale),
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	input := req.input()
	if err := validate.Struct(input); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, describeValidation(err))
		return
	}
	if len([]rune(input.Preferences)) > maxPreferenceRunes {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("preferences must be at most %d characters", maxPreferenceRunes))
		return
	}

	loc := locale.Parse(input.Language)
	ctx := services.WithLocale(r.Context(), loc.Code())
	records, err := h.service.Suggest(ctx, input.Preferences, loc)
	if err != nil {
		h.fail(w, r.WithContext(ctx), "suggest", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, records)
}

func (h *handlers) trending(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	window, err := tmdb.ParseTimeWindow(query.Get("period"))
	if err != nil {
		h.fail(w, r, "trending", err)
		return
	}
	loc := requestLocale(r)
	ctx := services.WithLocale(r.Context(), loc.Code())
	records, err := h.service.Trending(ctx, window, loc)
	if err != nil {
		h.fail(w, r.WithContext(ctx), "trending", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, records)
}

func (h *handlers) popular(w http.ResponseWriter, r *http.Request) {
	loc := requestLocale(r)
	ctx := services.WithLocale(r.Context(), loc.Code())
	records, err := h.service.Popular(ctx, loc)
	if err != nil {
		h.fail(w, r.WithContext(ctx), "popular", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, records)
}

func (h *handlers) providers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, h.logger, http.StatusBadRequest, "invalid movie id")
		return
	}
	loc := requestLocale(r)
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		country = loc.Country()
	}
	ctx := services.WithLocale(r.Context(), loc.Code())
	offers, err := h.service.Providers(ctx, id, country)
	if err != nil {
		h.fail(w, r.WithContext(ctx), "providers", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, offers)
}

// fail maps err onto a status and a caller-safe message. Server-side failures
// are logged with the full error chain.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		logging.WarnWithContext(logging.WithContext(r.Context(), h.logger), "request failed", "api_request_failed",
			logging.String("operation", operation),
			logging.Int("status", status),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.String(logging.FieldImpact, "caller received an error response"),
		)
	}
	writeError(w, h.logger, status, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	}
	switch services.Classify(err) {
	case services.ErrValidation:
		return http.StatusBadRequest, err.Error()
	case services.ErrNoResults:
		return http.StatusNotFound, "no movies found for these preferences"
	case services.ErrRecommendationUnavailable:
		return http.StatusBadGateway, "recommendation service unavailable"
	case services.ErrMetadataProvider:
		return http.StatusInternalServerError, "movie metadata unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func hintFor(err error) string {
	switch services.Classify(err) {
	case services.ErrRecommendationUnavailable:
		return "check the Gemini api key, quota, and circuit breaker state"
	case services.ErrMetadataProvider:
		return "check TMDB availability and api key"
	default:
		return "check logs for details"
	}
}

func requestLocale(r *http.Request) locale.Locale {
	query := r.URL.Query()
	return locale.Parse(firstNonBlank(query.Get("language"), query.Get("locale")))
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Preferences":
		return "preferences must not be empty"
	case "Language":
		return "language tag is too long"
	default:
		return fmt.Sprintf("invalid %s", strings.ToLower(fe.Field()))
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
