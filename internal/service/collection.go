package service

import (
	"slices"

	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
)

// DefaultCorruptionSports are the sports ClearCorruptedCurrentGames checks
// when none are given. Their team ids share a number space with other
// leagues.
var DefaultCorruptionSports = []string{"nba", "wnba"}

// MigrateCollection rewrites every record to its canonical key. Legacy id
// shapes become the string teamId, legacy MLB ids become ESPN ids and a
// record with a known sport gets that sport as its suffix. Existing
// "<id>_<sport>" keys keep their sport. Records without any id are
// discarded and later duplicates of a key lose to the first. changed
// reports whether anything differs from the input.
func MigrateCollection(favorites []models.FavoriteTeam) ([]models.FavoriteTeam, bool) {
	out := make([]models.FavoriteTeam, 0, len(favorites))
	seen := make(map[string]bool, len(favorites))
	changed := false

	for _, fav := range favorites {
		key, ok := teamid.Canonicalize(fav, "")
		if !ok {
			changed = true
			continue
		}
		if seen[key.Value] {
			changed = true
			continue
		}
		seen[key.Value] = true

		sport := fav.Sport
		if sport == "" {
			sport = key.Sport
		}
		if key.Value != fav.TeamID || sport != fav.Sport {
			fav = fav.Clone()
			fav.TeamID = key.Value
			fav.Sport = sport
			changed = true
		}
		out = append(out, fav)
	}
	return out, changed
}

func indexOf(favorites []models.FavoriteTeam, key string) int {
	return slices.IndexFunc(favorites, func(f models.FavoriteTeam) bool {
		return f.TeamID == key
	})
}

// withAdded appends team under key unless key is already present.
func withAdded(favorites []models.FavoriteTeam, key teamid.Key, team models.FavoriteTeam) ([]models.FavoriteTeam, bool) {
	if indexOf(favorites, key.Value) >= 0 {
		return favorites, false
	}
	team = team.Clone()
	team.TeamID = key.Value
	if key.Sport != "" {
		team.Sport = key.Sport
	}
	next := make([]models.FavoriteTeam, 0, len(favorites)+1)
	next = append(next, favorites...)
	return append(next, team), true
}

func withRemoved(favorites []models.FavoriteTeam, key string) ([]models.FavoriteTeam, bool) {
	i := indexOf(favorites, key)
	if i < 0 {
		return favorites, false
	}
	next := make([]models.FavoriteTeam, 0, len(favorites)-1)
	next = append(next, favorites[:i]...)
	return append(next, favorites[i+1:]...), true
}

// withCurrentGame sets game on the record for key. A record is synthesized
// from the key when none exists so a resolved game is never dropped; its
// sport comes from the key's suffix.
func withCurrentGame(favorites []models.FavoriteTeam, key teamid.Key, game models.CurrentGame) []models.FavoriteTeam {
	next := models.CloneFavorites(favorites)
	if i := indexOf(next, key.Value); i >= 0 {
		next[i].CurrentGame = &game
		return next
	}
	return append(next, models.FavoriteTeam{
		TeamID:      key.Value,
		Sport:       key.Sport,
		CurrentGame: &game,
	})
}

func withoutCurrentGame(favorites []models.FavoriteTeam, key string) ([]models.FavoriteTeam, bool) {
	i := indexOf(favorites, key)
	if i < 0 || favorites[i].CurrentGame == nil {
		return favorites, false
	}
	next := models.CloneFavorites(favorites)
	next[i].CurrentGame = nil
	return next, true
}

// withoutCorruptedGames strips current games whose competition is outside
// sports from records whose own sport is in sports.
func withoutCorruptedGames(favorites []models.FavoriteTeam, sports []string) ([]models.FavoriteTeam, int) {
	targets := make(map[string]bool, len(sports))
	for _, s := range sports {
		targets[teamid.NormalizeSport(s)] = true
	}

	var next []models.FavoriteTeam
	stripped := 0
	for i, fav := range favorites {
		if fav.CurrentGame == nil || !targets[teamid.NormalizeSport(fav.Sport)] {
			continue
		}
		if targets[teamid.NormalizeSport(fav.CurrentGame.Competition)] {
			continue
		}
		if next == nil {
			next = models.CloneFavorites(favorites)
		}
		next[i].CurrentGame = nil
		stripped++
	}
	if next == nil {
		return favorites, 0
	}
	return next, stripped
}

func missingCurrentGame(favorites []models.FavoriteTeam) []models.FavoriteTeam {
	var out []models.FavoriteTeam
	for _, fav := range favorites {
		if fav.CurrentGame == nil && fav.TeamID != "" {
			out = append(out, fav)
		}
	}
	return out
}

// isSoccer reports whether fav resolves through the soccer league search
// rather than a team page.
func isSoccer(fav models.FavoriteTeam) bool {
	_, suffix := teamid.StripSuffix(fav.TeamID)
	sport := teamid.NormalizeSport(fav.Sport)
	return teamid.IsSoccerCompetition(suffix) || teamid.IsSoccerCompetition(sport) || sport == "soccer"
}
