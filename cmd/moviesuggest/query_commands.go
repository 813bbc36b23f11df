package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moviesuggest/internal/locale"
	"moviesuggest/internal/suggest"
	"moviesuggest/internal/tmdb"
)

// withService loads config, builds a stderr logger, and wires the pipeline.
func (c *commandContext) withService(fn func(*suggest.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger("stderr")
	if err != nil {
		return err
	}
	svc, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	return fn(svc)
}

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var localeFlag string

	cmd := &cobra.Command{
		Use:   "suggest <preferences...>",
		Short: "Suggest movies for free-text preferences",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preferences := strings.TrimSpace(strings.Join(args, " "))
			if preferences == "" {
				return errors.New("preferences must not be empty")
			}
			loc := locale.Parse(localeFlag)
			return ctx.withService(func(svc *suggest.Service) error {
				records, err := svc.Suggest(cmd.Context(), preferences, loc)
				if err != nil {
					return err
				}
				return printRecords(cmd, ctx, records)
			})
		},
	}

	cmd.Flags().StringVarP(&localeFlag, "locale", "l", "", "Locale for prompt and metadata (en, pt)")
	return cmd
}

func newTrendingCommand(ctx *commandContext) *cobra.Command {
	var localeFlag string
	var periodFlag string

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List trending movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := tmdb.ParseTimeWindow(periodFlag)
			if err != nil {
				return err
			}
			loc := locale.Parse(localeFlag)
			return ctx.withService(func(svc *suggest.Service) error {
				records, err := svc.Trending(cmd.Context(), window, loc)
				if err != nil {
					return err
				}
				return printRecords(cmd, ctx, records)
			})
		},
	}

	cmd.Flags().StringVarP(&localeFlag, "locale", "l", "", "Locale for metadata (en, pt)")
	cmd.Flags().StringVarP(&periodFlag, "period", "p", "day", "Trending window (day, week)")
	return cmd
}

func newPopularCommand(ctx *commandContext) *cobra.Command {
	var localeFlag string

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := locale.Parse(localeFlag)
			return ctx.withService(func(svc *suggest.Service) error {
				records, err := svc.Popular(cmd.Context(), loc)
				if err != nil {
					return err
				}
				return printRecords(cmd, ctx, records)
			})
		},
	}

	cmd.Flags().StringVarP(&localeFlag, "locale", "l", "", "Locale for metadata (en, pt)")
	return cmd
}

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	var localeFlag string
	var countryFlag string

	cmd := &cobra.Command{
		Use:   "providers <tmdb-id>",
		Short: "Show where a movie can be streamed, rented, or bought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			country := strings.TrimSpace(countryFlag)
			if country == "" {
				country = locale.Parse(localeFlag).Country()
			}
			return ctx.withService(func(svc *suggest.Service) error {
				offers, err := svc.Providers(cmd.Context(), id, country)
				if err != nil {
					return err
				}
				return printOffers(cmd, ctx, offers)
			})
		},
	}

	cmd.Flags().StringVarP(&localeFlag, "locale", "l", "", "Locale used to pick the default country (en, pt)")
	cmd.Flags().StringVar(&countryFlag, "country", "", "ISO 3166-1 country code (defaults from locale)")
	return cmd
}
