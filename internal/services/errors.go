package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing or invalid process configuration. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrRecommendationUnavailable marks an unreachable language model or a response with no usable titles.
	ErrRecommendationUnavailable = errors.New("recommendation unavailable")
	// ErrMetadataProvider marks a failed call to the movie metadata provider.
	ErrMetadataProvider = errors.New("metadata provider error")
	// ErrNoResults marks a suggestion request where no complete record survived filtering.
	ErrNoResults = errors.New("no results")
	// ErrValidation marks caller input rejected at the boundary.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrMetadataProvider
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify returns the sentinel marker carried by err, or nil when err carries none.
func Classify(err error) error {
	for _, marker := range []error{
		ErrValidation,
		ErrNoResults,
		ErrRecommendationUnavailable,
		ErrMetadataProvider,
		ErrConfiguration,
	} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
