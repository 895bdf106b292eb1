// Package teamid turns the many shapes a team identifier arrives in into the
// single canonical key favorites are stored under.
//
// A key is "<espnId>_<sport>" whenever the sport is known ("10_mlb",
// "86_la liga"). ESPN ids are only unique within a league, so NBA team 5 and
// NFL team 5 are two favorites, and so is one club followed in two soccer
// competitions. A key without a suffix ("10") is a team whose sport was
// never recorded.
package teamid

import (
	"strconv"
	"strings"
)

// Separator joins a base id and its competition suffix.
const Separator = "_"

// Ref is anything that can name a team: a bare id, a numeric id or a
// team-like object. It is resolved once by Canonicalize.
type Ref interface {
	TeamRef() Team
}

// ID is a bare string identifier, possibly already suffixed.
type ID string

func (id ID) TeamRef() Team { return Team{TeamID: string(id)} }

// Number is a numeric identifier as older clients sent it.
type Number int64

func (n Number) TeamRef() Team { return Team{TeamID: strconv.FormatInt(int64(n), 10)} }

// Team is a team-like object. Identifier fields are consulted in the order
// TeamID, ID, Team.TeamID, Team.ID, ESPNID, UID.
type Team struct {
	TeamID string
	ID     string
	Team   *Nested
	ESPNID string
	UID    string
	Sport  string
}

// Nested is the inner "team" object some payloads wrap the id in.
type Nested struct {
	TeamID string
	ID     string
}

func (t Team) TeamRef() Team { return t }

func (t Team) rawID() string {
	candidates := []string{t.TeamID, t.ID}
	if t.Team != nil {
		candidates = append(candidates, t.Team.TeamID, t.Team.ID)
	}
	candidates = append(candidates, t.ESPNID, t.UID)
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// Key is a resolved canonical identifier.
type Key struct {
	// Value is the storage key.
	Value string
	// Base is the id without any suffix.
	Base string
	// Sport is the effective lower-case sport tag, empty when unknown.
	Sport string
}

// Suffixed reports whether the key carries a sport suffix.
func (k Key) Suffixed() bool { return k.Value != k.Base }

// StripSuffix splits rawID on the first separator. The suffix keeps its
// case; sport is empty when rawID has no separator.
func StripSuffix(rawID string) (id, sport string) {
	base, suffix, found := strings.Cut(rawID, Separator)
	if !found {
		return rawID, ""
	}
	return base, suffix
}

// AddSuffix appends "_<sport>" to baseID. An empty sport returns baseID as
// is, and an id that already contains the separator is never suffixed twice.
func AddSuffix(baseID, sport string) string {
	if sport == "" || strings.Contains(baseID, Separator) {
		return baseID
	}
	return baseID + Separator + sport
}

// Canonicalize resolves ref to its storage key. The effective sport is the
// id's own suffix if it has one, then sportHint, then the object's Sport.
// Legacy MLB ids are rewritten to ESPN ids. ok is false when no identifier
// could be found.
func Canonicalize(ref Ref, sportHint string) (Key, bool) {
	if ref == nil {
		return Key{}, false
	}
	t := ref.TeamRef()
	raw := t.rawID()
	if raw == "" {
		return Key{}, false
	}

	base, suffix := StripSuffix(raw)
	base = strings.TrimSpace(base)
	if base == "" {
		return Key{}, false
	}

	sport := NormalizeSport(suffix)
	if sport == "" {
		sport = NormalizeSport(sportHint)
	}
	if sport == "" {
		sport = NormalizeSport(t.Sport)
	}

	if espnID, ok := ESPNFromLegacy(sport, base); ok {
		base = espnID
	}

	return Key{Value: AddSuffix(base, sport), Base: base, Sport: sport}, true
}
