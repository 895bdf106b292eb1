package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/omarshaarawi/scorekeeper/internal/api/espn"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
	"golang.org/x/sync/errgroup"
)

type espnSport struct {
	league espn.League
	tag    string
}

// espnSports maps a favorite's sport tag to its site API league and the
// competition tag stored on resolved games.
var espnSports = map[string]espnSport{
	"nfl":      {espn.League{Sport: "football", Code: "nfl"}, "nfl"},
	"football": {espn.League{Sport: "football", Code: "nfl"}, "nfl"},
	"ncaaf":    {espn.League{Sport: "football", Code: "college-football"}, "ncaaf"},
	"nba":      {espn.League{Sport: "basketball", Code: "nba"}, "nba"},
	"wnba":     {espn.League{Sport: "basketball", Code: "wnba"}, "wnba"},
	"nhl":      {espn.League{Sport: "hockey", Code: "nhl"}, "nhl"},
}

func isMLB(sport string) bool {
	return sport == teamid.SportMLB || sport == "baseball"
}

// Supported reports whether TeamPage can resolve games for sport.
func Supported(sport string) bool {
	sport = teamid.NormalizeSport(sport)
	_, ok := espnSports[sport]
	return ok || isMLB(sport)
}

// TeamPage resolves non-soccer favorites from each sport's own schedule.
type TeamPage struct {
	espn     ESPN
	mlb      MLB
	calendar Calendar
	logger   *slog.Logger
}

func NewTeamPage(espnAPI ESPN, mlbAPI MLB, calendar Calendar, logger *slog.Logger) *TeamPage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamPage{espn: espnAPI, mlb: mlbAPI, calendar: calendar, logger: logger}
}

// FetchAllFavoriteTeamCurrentGames looks up every non-soccer favorite that
// has no current game, all at once, and calls onResolved for each hit.
// Lookup failures are logged and skipped.
func (t *TeamPage) FetchAllFavoriteTeamCurrentGames(ctx context.Context, favorites []models.FavoriteTeam, onResolved func(teamID string, game models.CurrentGame)) error {
	var g errgroup.Group
	for _, fav := range favorites {
		sport := teamid.NormalizeSport(fav.Sport)
		if sport == "" {
			_, suffix := teamid.StripSuffix(fav.TeamID)
			sport = teamid.NormalizeSport(suffix)
		}
		switch {
		case fav.TeamID == "" || sport == "":
			t.logger.Debug("Skipping favorite without id or sport", "team_id", fav.TeamID)
			continue
		case fav.CurrentGame != nil:
			continue
		case teamid.IsSoccerCompetition(sport):
			continue
		case !Supported(sport):
			t.logger.Debug("Skipping unsupported sport", "team_id", fav.TeamID, "sport", sport)
			continue
		}

		g.Go(func() error {
			game, err := t.CurrentGame(ctx, fav.TeamID, sport)
			if err != nil {
				t.logger.Error("Error fetching current game", "team_id", fav.TeamID, "sport", sport, "error", err)
				return nil
			}
			if game != nil {
				onResolved(fav.TeamID, *game)
			}
			return nil
		})
	}
	return g.Wait()
}

// CurrentGame returns the team's live game, or else its next scheduled
// one. It returns nil when there is none.
func (t *TeamPage) CurrentGame(ctx context.Context, teamID, sport string) (*models.CurrentGame, error) {
	sport = teamid.NormalizeSport(sport)
	base, _ := teamid.StripSuffix(teamID)
	if isMLB(sport) {
		return t.mlbGame(ctx, base)
	}
	s, ok := espnSports[sport]
	if !ok {
		return nil, fmt.Errorf("unsupported sport %q", sport)
	}
	return t.espnGame(ctx, s, base)
}

func (t *TeamPage) espnGame(ctx context.Context, s espnSport, teamID string) (*models.CurrentGame, error) {
	events, err := t.espn.TeamSchedule(ctx, s.league, teamID)
	if err != nil {
		return nil, err
	}

	now := t.calendar.Now()
	var next *models.Event
	for i, event := range events {
		status := event.EventStatus()
		if status.IsLive() {
			return eventGame(t.espn, s.league, event, s.tag), nil
		}
		if status.IsScheduled() && !event.Date.Before(now) {
			if next == nil || event.Date.Before(next.Date.Time) {
				next = &events[i]
			}
		}
	}
	if next == nil {
		return nil, nil
	}
	return eventGame(t.espn, s.league, *next, s.tag), nil
}

func (t *TeamPage) mlbGame(ctx context.Context, espnID string) (*models.CurrentGame, error) {
	mlbID, ok := teamid.MLBID(espnID)
	if !ok {
		mlbID = espnID
	}

	today := t.calendar.Today()
	tomorrow := today.AddDate(0, 0, 1)
	schedule, err := t.mlb.Schedule(ctx, mlbID, today, tomorrow)
	if err != nil {
		return nil, err
	}

	var games []models.MLBGame
	for _, d := range schedule.Dates {
		games = append(games, d.Games...)
	}

	if len(games) == 0 {
		// Nothing today; look a little further ahead for the next game.
		ahead, err := t.mlb.Schedule(ctx, mlbID, tomorrow, tomorrow.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		for _, d := range ahead.Dates {
			if len(d.Games) > 0 {
				return mlbCurrentGame(d.Games[0]), nil
			}
		}
		return nil, nil
	}

	for _, game := range games {
		if game.Status.IsLive() {
			return mlbCurrentGame(game), nil
		}
	}
	for _, game := range games {
		if game.Status.IsScheduled() {
			return mlbCurrentGame(game), nil
		}
	}
	return nil, nil
}

func mlbCurrentGame(game models.MLBGame) *models.CurrentGame {
	link := game.Link
	if link == "" {
		link = fmt.Sprintf("/api/v1.1/game/%d/feed/live", game.GamePk)
	}
	gameDate := game.GameDate
	if parsed, err := time.Parse(time.RFC3339, gameDate); err == nil {
		gameDate = parsed.UTC().Format(time.RFC3339)
	}
	return &models.CurrentGame{
		EventID:     strconv.FormatInt(game.GamePk, 10),
		EventLink:   link,
		GameDate:    gameDate,
		Competition: teamid.SportMLB,
	}
}
