package espn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/omarshaarawi/scorekeeper/internal/models"
)

// League locates a league on the site API, e.g. {"basketball", "nba"} or
// {"soccer", "esp.1"}.
type League struct {
	Sport string
	Code  string
}

func (l League) path() string {
	return fmt.Sprintf("/%s/%s", l.Sport, l.Code)
}

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// Scoreboard returns the league's events on day.
func (a *API) Scoreboard(ctx context.Context, league League, day time.Time) ([]models.Event, error) {
	var resp models.ScoreboardResponse
	params := map[string]string{
		"dates": day.Format("20060102"),
	}
	if err := a.client.Get(ctx, league.path()+"/scoreboard", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching %s scoreboard: %w", league.Code, err)
	}
	return resp.Events, nil
}

// TeamSchedule returns the team's season schedule.
func (a *API) TeamSchedule(ctx context.Context, league League, teamID string) ([]models.Event, error) {
	var resp models.ScoreboardResponse
	endpoint := fmt.Sprintf("%s/teams/%s/schedule", league.path(), teamID)
	if err := a.client.Get(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching %s schedule for team %s: %w", league.Code, teamID, err)
	}
	return resp.Events, nil
}

// EventLink builds the core API reference stored with a resolved game.
func (a *API) EventLink(league League, eventID string) string {
	return fmt.Sprintf("%s/%s/leagues/%s/events/%s",
		strings.TrimRight(a.client.Config.CoreURL, "/"), league.Sport, league.Code, eventID)
}
