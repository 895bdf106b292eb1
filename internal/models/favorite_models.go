package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/omarshaarawi/scorekeeper/internal/teamid"
)

// CurrentGame is the game a favorite is playing today, as last resolved.
type CurrentGame struct {
	EventID     string
	EventLink   string
	GameDate    string
	Competition string
	UpdatedAt   string
}

// FavoriteTeam is one persisted favorite. TeamID is the canonical key and
// never changes once the record exists.
type FavoriteTeam struct {
	TeamID      string
	Sport       string
	TeamName    string
	LeagueCode  string
	CurrentGame *CurrentGame

	// Extra holds every other field the caller supplied, passed through
	// untouched.
	Extra map[string]json.RawMessage
}

// TeamRef exposes the record's identifier fields, including the legacy
// "id" and "team" shapes older builds persisted.
func (f FavoriteTeam) TeamRef() teamid.Team {
	t := teamid.Team{
		TeamID: f.TeamID,
		ID:     f.extraString("id"),
		ESPNID: f.extraString("espnId"),
		UID:    f.extraString("uid"),
		Sport:  f.Sport,
	}
	if raw, ok := f.Extra["team"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err == nil {
			t.Team = &teamid.Nested{
				TeamID: looseString(inner["teamId"]),
				ID:     looseString(inner["id"]),
			}
		}
	}
	return t
}

func (f FavoriteTeam) extraString(key string) string {
	return looseString(f.Extra[key])
}

// Clone returns a deep copy.
func (f FavoriteTeam) Clone() FavoriteTeam {
	c := f
	if f.CurrentGame != nil {
		g := *f.CurrentGame
		c.CurrentGame = &g
	}
	if f.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(f.Extra))
		for k, v := range f.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// CloneFavorites deep copies a collection.
func CloneFavorites(favs []FavoriteTeam) []FavoriteTeam {
	out := make([]FavoriteTeam, len(favs))
	for i, f := range favs {
		out[i] = f.Clone()
	}
	return out
}

const (
	fieldTeamID      = "teamId"
	fieldSport       = "sport"
	fieldTeamName    = "teamName"
	fieldLeagueCode  = "leagueCode"
	fieldCurrentGame = "currentGame"
)

func (f FavoriteTeam) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Extra)+5)
	for k, v := range f.Extra {
		out[k] = v
	}
	out[fieldTeamID] = f.TeamID
	out[fieldSport] = nullable(f.Sport)
	out[fieldTeamName] = nullable(f.TeamName)
	out[fieldLeagueCode] = nullable(f.LeagueCode)
	if f.CurrentGame != nil {
		out[fieldCurrentGame] = f.CurrentGame
	} else {
		delete(out, fieldCurrentGame)
	}
	return json.Marshal(out)
}

func (f *FavoriteTeam) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding favorite: %w", err)
	}

	*f = FavoriteTeam{
		TeamID:     looseString(fields[fieldTeamID]),
		Sport:      looseString(fields[fieldSport]),
		TeamName:   looseString(fields[fieldTeamName]),
		LeagueCode: looseString(fields[fieldLeagueCode]),
	}

	if raw, ok := fields[fieldCurrentGame]; ok && !isNull(raw) {
		var game CurrentGame
		if err := json.Unmarshal(raw, &game); err != nil {
			return fmt.Errorf("decoding current game: %w", err)
		}
		f.CurrentGame = &game
	}

	for _, k := range []string{fieldTeamID, fieldSport, fieldTeamName, fieldLeagueCode, fieldCurrentGame} {
		delete(fields, k)
	}
	if len(fields) > 0 {
		f.Extra = fields
	}
	return nil
}

type currentGameJSON struct {
	EventID     json.RawMessage `json:"eventId"`
	EventLink   json.RawMessage `json:"eventLink"`
	GameDate    json.RawMessage `json:"gameDate"`
	Competition json.RawMessage `json:"competition"`
	UpdatedAt   json.RawMessage `json:"updatedAt"`
}

func (g CurrentGame) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"eventId":     nullable(g.EventID),
		"eventLink":   nullable(g.EventLink),
		"gameDate":    nullable(g.GameDate),
		"competition": nullable(g.Competition),
		"updatedAt":   g.UpdatedAt,
	})
}

// UnmarshalJSON accepts numeric event ids, which MLB games were stored with.
func (g *CurrentGame) UnmarshalJSON(data []byte) error {
	var raw currentGameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = CurrentGame{
		EventID:     looseString(raw.EventID),
		EventLink:   looseString(raw.EventLink),
		GameDate:    looseString(raw.GameDate),
		Competition: looseString(raw.Competition),
		UpdatedAt:   looseString(raw.UpdatedAt),
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// looseString reads a JSON string or number as a string. Anything else
// reads as empty.
func looseString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
