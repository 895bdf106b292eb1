package models

import (
	"strings"
	"time"
)

// ScoreboardResponse is the site API scoreboard and team schedule payload;
// both list events the same way.
type ScoreboardResponse struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID           string        `json:"id"`
	Date         ESPNTime      `json:"date"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

type Competition struct {
	ID          string       `json:"id"`
	Date        ESPNTime     `json:"date"`
	Competitors []Competitor `json:"competitors"`
	Status      Status       `json:"status"`
}

type Competitor struct {
	ID       string `json:"id"`
	HomeAway string `json:"homeAway"`
	Team     Team   `json:"team"`
}

type Team struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
}

type Status struct {
	Type StatusType `json:"type"`
}

type StatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

// HasTeam reports whether any competitor in the event has the given id.
func (e Event) HasTeam(teamID string) bool {
	for _, c := range e.Competitions {
		for _, comp := range c.Competitors {
			if comp.Team.ID == teamID || comp.ID == teamID {
				return true
			}
		}
	}
	return false
}

// EventStatus prefers the event-level status and falls back to the first
// competition's, since schedule payloads only fill the latter.
func (e Event) EventStatus() StatusType {
	if e.Status.Type.Name != "" || e.Status.Type.State != "" {
		return e.Status.Type
	}
	if len(e.Competitions) > 0 {
		return e.Competitions[0].Status.Type
	}
	return StatusType{}
}

// IsLive reports whether the event is in progress.
func (s StatusType) IsLive() bool {
	return s.State == "in" || s.Name == "STATUS_IN_PROGRESS" || s.Name == "STATUS_HALFTIME"
}

// IsScheduled reports whether the event has not started.
func (s StatusType) IsScheduled() bool {
	return s.State == "pre" || s.Name == "STATUS_SCHEDULED"
}

// ESPNTime unmarshals both full RFC3339 timestamps and the shorter
// "YYYY-MM-DDThh:mmZ" strings some ESPN endpoints return.
type ESPNTime struct {
	time.Time
}

func (t *ESPNTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	var parseErr error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		parseErr = err
	}
	return parseErr
}
