package bot

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
)

const nameSimilarityThreshold = 0.6

// findFavorite matches query against favorite keys first and team names
// second. Names match when query is a subsequence of the name or close to
// it by edit distance.
func findFavorite(favorites []models.FavoriteTeam, query string) (models.FavoriteTeam, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.FavoriteTeam{}, false
	}

	if key, ok := teamid.Canonicalize(teamid.ID(query), ""); ok {
		for _, fav := range favorites {
			if fav.TeamID == key.Value {
				return fav, true
			}
		}
		if !key.Suffixed() {
			for _, fav := range favorites {
				if base, _ := teamid.StripSuffix(fav.TeamID); base == key.Base {
					return fav, true
				}
			}
		}
	}

	names := make([]string, len(favorites))
	for i, fav := range favorites {
		names[i] = fav.TeamName
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return favorites[ranks[0].OriginalIndex], true
	}

	best, bestSimilarity := -1, nameSimilarityThreshold
	for i, name := range names {
		if name == "" {
			continue
		}
		distance := fuzzy.LevenshteinDistance(strings.ToLower(query), strings.ToLower(name))
		maxLen := float64(max(len(query), len(name)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestSimilarity {
			best, bestSimilarity = i, similarity
		}
	}
	if best < 0 {
		return models.FavoriteTeam{}, false
	}
	return favorites[best], true
}

// parseTeamArgs splits "<sport words...> <teamId> [name words...]". The
// team id is the first token starting with a digit.
func parseTeamArgs(args string) (sport, id, name string, ok bool) {
	fields := strings.Fields(args)
	for i, f := range fields {
		if i == 0 || !unicode.IsDigit(rune(f[0])) {
			continue
		}
		return strings.Join(fields[:i], " "), f, strings.Join(fields[i+1:], " "), true
	}
	return "", "", "", false
}
