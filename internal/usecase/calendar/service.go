// Package calendar composes the favorites cache and the birthday resolver
// into the per-user birthday calendar served by the HTTP handlers and the CLI.
package calendar

import (
	"context"
	"fmt"
	"time"

	"waifu-calendar/internal/usecase/birthday"
	"waifu-calendar/internal/usecase/favorites"
)

// FavoritesSource returns a user's favorite characters.
// *favorites.Cache implements it.
type FavoritesSource interface {
	GetFavorites(ctx context.Context, username string, now time.Time) (favorites.Result, error)
}

// Calendar is one user's resolved birthday report.
type Calendar struct {
	Username string
	Report   birthday.Report
	// Source describes where the records came from (fresh or stale, and when).
	Source favorites.Result
}

// Occurrences returns every resolved birthday in report order.
func (c Calendar) Occurrences() []birthday.Occurrence {
	return c.Report.All()
}

// Service builds calendars.
type Service struct {
	Favorites   FavoritesSource
	Resolver    birthday.Resolver
	HorizonDays int
}

// Build fetches username's favorites and resolves their birthdays as of now
// using the configured horizon.
func (s *Service) Build(ctx context.Context, username string, now time.Time) (Calendar, error) {
	return s.BuildWithHorizon(ctx, username, now, s.HorizonDays)
}

// BuildWithHorizon is Build with an explicit upcoming window in days.
// Errors from the favorites source are wrapped and keep their identity
// for errors.Is.
func (s *Service) BuildWithHorizon(ctx context.Context, username string, now time.Time, horizonDays int) (Calendar, error) {
	result, err := s.Favorites.GetFavorites(ctx, username, now)
	if err != nil {
		return Calendar{}, fmt.Errorf("build calendar for %q: %w", username, err)
	}

	return Calendar{
		Username: username,
		Report:   s.Resolver.Report(result.Records, now, horizonDays),
		Source:   result,
	}, nil
}
