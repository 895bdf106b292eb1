package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omarshaarawi/scorekeeper/internal/api/espn"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
)

const soccerSport = "soccer"

// domesticLeagues maps a competition suffix to its ESPN league code.
var domesticLeagues = map[string]string{
	teamid.PremierLeague: "eng.1",
	teamid.LaLiga:        "esp.1",
	teamid.SerieA:        "ita.1",
	teamid.Bundesliga:    "ger.1",
	teamid.Ligue1:        "fra.1",
}

// majorDomestic is the generic domestic fallback, England first.
var majorDomestic = []string{"eng.1", "esp.1", "ita.1", "ger.1", "fra.1"}

// continental is checked after every domestic league.
var continental = []string{"uefa.champions", "uefa.europa", "uefa.europa.conf"}

// Soccer resolves today's match for a soccer favorite by walking league
// scoreboards, domestic before continental, stopping at the first match.
type Soccer struct {
	api      ESPN
	calendar Calendar
	logger   *slog.Logger
}

func NewSoccer(api ESPN, calendar Calendar, logger *slog.Logger) *Soccer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Soccer{api: api, calendar: calendar, logger: logger}
}

// SearchOrder lists the league codes checked for a competition suffix.
func SearchOrder(competition string) []string {
	order := make([]string, 0, len(majorDomestic)+len(continental)+1)
	seen := make(map[string]bool)
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			order = append(order, code)
		}
	}
	if code, ok := domesticLeagues[teamid.NormalizeSport(competition)]; ok {
		add(code)
	}
	for _, code := range majorDomestic {
		add(code)
	}
	for _, code := range continental {
		add(code)
	}
	return order
}

// ResolveCurrentGame returns nil without error when no league has a match
// for the team today. Leagues that fail to load are skipped; their errors
// are returned only if nothing was found.
func (s *Soccer) ResolveCurrentGame(ctx context.Context, key string) (*models.CurrentGame, error) {
	base, suffix := teamid.StripSuffix(key)
	day := s.calendar.Today()

	var errs []error
	for _, code := range SearchOrder(suffix) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		league := espn.League{Sport: soccerSport, Code: code}
		events, err := s.api.Scoreboard(ctx, league, day)
		if err != nil {
			s.logger.Debug("Skipping league", "league", code, "team_id", key, "error", err)
			errs = append(errs, err)
			continue
		}
		for _, event := range events {
			if event.HasTeam(base) {
				s.logger.Info("Found soccer game", "league", code, "team_id", key, "event_id", event.ID)
				return eventGame(s.api, league, event, code), nil
			}
		}
	}
	return nil, errors.Join(errs...)
}
