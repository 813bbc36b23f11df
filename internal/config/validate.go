package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"moviesuggest/internal/services"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate ensures the configuration is usable. Every failure wraps
// services.ErrConfiguration so callers can refuse to start.
func (c *Config) Validate() error {
	if err := c.validateStruct(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "", "", err)
	}
	if err := c.validatePrompts(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "", "", err)
	}
	return nil
}

func (c *Config) validateStruct() error {
	err := structValidator.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	key := fe.Namespace()
	if idx := strings.Index(key, "."); idx >= 0 {
		key = key[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		if hint := envHint(key); hint != "" {
			return fmt.Sprintf("%s is required (set %s or edit the config file)", key, hint)
		}
		return fmt.Sprintf("%s is required", key)
	case "url":
		return fmt.Sprintf("%s must be an absolute URL", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", key, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", key, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", key, fe.Tag())
	}
}

func envHint(key string) string {
	switch key {
	case "tmdb.api_key":
		return "TMDB_API_KEY"
	case "tmdb.base_url":
		return "TMDB_API_URL"
	case "gemini.api_key":
		return "GEMINI_API_KEY"
	case "prompts.en":
		return "PROMPT_EN"
	case "prompts.pt":
		return "PROMPT_PT"
	default:
		return ""
	}
}

func (c *Config) validatePrompts() error {
	for key, template := range map[string]string{
		"prompts.en": c.Prompts.EN,
		"prompts.pt": c.Prompts.PT,
	} {
		count := strings.Count(template, PreferencesPlaceholder)
		if count != 1 {
			return fmt.Errorf("%s must contain the %s placeholder exactly once (found %d)", key, PreferencesPlaceholder, count)
		}
	}
	return nil
}
