package teamid

// mlbToESPN maps MLB Stats API team ids to ESPN team ids. Favorites saved
// from MLB screens before the switch to ESPN ids carry the left-hand side.
var mlbToESPN = map[string]string{
	// AL East
	"110": "1",  // Baltimore Orioles
	"111": "2",  // Boston Red Sox
	"147": "10", // New York Yankees
	"139": "30", // Tampa Bay Rays
	"141": "14", // Toronto Blue Jays

	// AL Central
	"145": "4", // Chicago White Sox
	"114": "5", // Cleveland Guardians
	"116": "6", // Detroit Tigers
	"118": "7", // Kansas City Royals
	"142": "9", // Minnesota Twins

	// AL West
	"117": "18", // Houston Astros
	"108": "3",  // Los Angeles Angels
	"133": "11", // Athletics
	"136": "12", // Seattle Mariners
	"140": "13", // Texas Rangers

	// NL East
	"144": "15", // Atlanta Braves
	"146": "28", // Miami Marlins
	"121": "21", // New York Mets
	"143": "22", // Philadelphia Phillies
	"120": "20", // Washington Nationals

	// NL Central
	"112": "16", // Chicago Cubs
	"113": "17", // Cincinnati Reds
	"158": "8",  // Milwaukee Brewers
	"134": "23", // Pittsburgh Pirates
	"138": "24", // St. Louis Cardinals

	// NL West
	"109": "29", // Arizona Diamondbacks
	"115": "27", // Colorado Rockies
	"119": "19", // Los Angeles Dodgers
	"135": "25", // San Diego Padres
	"137": "26", // San Francisco Giants
}

var espnToMLB = func() map[string]string {
	m := make(map[string]string, len(mlbToESPN))
	for mlbID, espnID := range mlbToESPN {
		m[espnID] = mlbID
	}
	return m
}()

// SportMLB is the sport tag whose ids go through the legacy table.
const SportMLB = "mlb"

// ESPNFromLegacy returns the ESPN id for a legacy MLB Stats API id.
func ESPNFromLegacy(sport, id string) (string, bool) {
	if NormalizeSport(sport) != SportMLB {
		return "", false
	}
	espnID, ok := mlbToESPN[id]
	return espnID, ok
}

// MLBID returns the MLB Stats API id for an ESPN MLB team id, for calls
// against the MLB schedule API.
func MLBID(espnID string) (string, bool) {
	id, ok := espnToMLB[espnID]
	return id, ok
}
