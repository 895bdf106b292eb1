// Package resolver finds the game a favorite team is playing today.
package resolver

import (
	"context"
	"time"

	"github.com/omarshaarawi/scorekeeper/internal/api/espn"
	"github.com/omarshaarawi/scorekeeper/internal/models"
)

// ESPN is the subset of the ESPN site API the resolvers read.
type ESPN interface {
	Scoreboard(ctx context.Context, league espn.League, day time.Time) ([]models.Event, error)
	TeamSchedule(ctx context.Context, league espn.League, teamID string) ([]models.Event, error)
	EventLink(league espn.League, eventID string) string
}

// MLB is the subset of the MLB Stats API the resolvers read.
type MLB interface {
	Schedule(ctx context.Context, teamID string, start, end time.Time) (*models.MLBScheduleResponse, error)
}

func eventGame(api ESPN, league espn.League, event models.Event, competition string) *models.CurrentGame {
	date := event.Date.Time
	if date.IsZero() && len(event.Competitions) > 0 {
		date = event.Competitions[0].Date.Time
	}
	game := &models.CurrentGame{
		EventID:     event.ID,
		EventLink:   api.EventLink(league, event.ID),
		Competition: competition,
	}
	if !date.IsZero() {
		game.GameDate = date.UTC().Format(time.RFC3339)
	}
	return game
}
