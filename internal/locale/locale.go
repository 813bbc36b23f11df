package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale selects the prompt template, metadata language, and watch-provider
// country for a request. Only two branches exist.
type Locale int

const (
	// English is the default branch for every tag that is not Portuguese.
	English Locale = iota
	// Portuguese covers pt, pt-BR, pt-PT and other Portuguese tags.
	Portuguese
)

var portugueseBase, _ = language.Portuguese.Base()

// Parse maps a free-form locale string onto a Locale. Empty, malformed, and
// unrecognized values fall back to English.
func Parse(value string) Locale {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", "-"))
	if value == "" {
		return English
	}
	tag, err := language.Parse(value)
	if err != nil {
		return English
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return English
	}
	if base == portugueseBase {
		return Portuguese
	}
	return English
}

// Code returns the short locale code used in logs and prompt selection.
func (l Locale) Code() string {
	if l == Portuguese {
		return "pt"
	}
	return "en"
}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return l.Code()
}

// Language returns the TMDB language parameter for metadata calls.
func (l Locale) Language() string {
	if l == Portuguese {
		return "pt-BR"
	}
	return "en-US"
}

// Country returns the ISO 3166-1 region used for watch-provider lookups.
func (l Locale) Country() string {
	if l == Portuguese {
		return "BR"
	}
	return "US"
}
