package teamid

import "strings"

// Soccer competition tags.
const (
	LaLiga         = "la liga"
	SerieA         = "serie a"
	Bundesliga     = "bundesliga"
	PremierLeague  = "premier league"
	Ligue1         = "ligue 1"
	UEFAChampions  = "uefa champions"
	UEFAEuropa     = "uefa europa"
	UEFAEuropaConf = "uefa europa conf"
)

// SoccerCompetitions is the one list of competitions resolved through the
// soccer league search and shared across by IsFavorite. New competitions are
// added here and nowhere else.
var SoccerCompetitions = []string{
	LaLiga,
	SerieA,
	Bundesliga,
	PremierLeague,
	Ligue1,
	UEFAChampions,
	UEFAEuropa,
	UEFAEuropaConf,
}

var soccerSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SoccerCompetitions))
	for _, c := range SoccerCompetitions {
		m[c] = struct{}{}
	}
	return m
}()

// IsSoccerCompetition reports whether sport is one of SoccerCompetitions.
// The comparison ignores case and surrounding space.
func IsSoccerCompetition(sport string) bool {
	_, ok := soccerSet[NormalizeSport(sport)]
	return ok
}

// NormalizeSport lower-cases and trims a sport tag.
func NormalizeSport(sport string) string {
	return strings.ToLower(strings.TrimSpace(sport))
}
