package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/omarshaarawi/scorekeeper/internal/config"
	"github.com/omarshaarawi/scorekeeper/internal/models"
)

type Client struct {
	httpClient *http.Client
	Config     config.MLBAPI
}

func NewClient(cfg config.MLBAPI) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		Config:     cfg,
	}
}

// Schedule returns the team's games between start and end inclusive. teamID
// is an MLB Stats API id, not an ESPN id.
func (c *Client) Schedule(ctx context.Context, teamID string, start, end time.Time) (*models.MLBScheduleResponse, error) {
	url := strings.TrimRight(c.Config.BaseURL, "/") + "/schedule/games/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	q.Set("sportId", "1")
	q.Set("teamId", teamID)
	q.Set("startDate", start.Format(time.DateOnly))
	q.Set("endDate", end.Format(time.DateOnly))
	q.Set("hydrate", "team,linescore")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var schedule models.MLBScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return &schedule, nil
}
