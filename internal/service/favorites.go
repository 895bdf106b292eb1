package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/repository"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
)

// DefaultStorageKey is the store key the collection is persisted under.
const DefaultStorageKey = "favorites"

// Log op values attached to swallowed failures.
const (
	OpLoad      = "load"
	OpPersist   = "persist"
	OpRemoveKey = "remove_key"
	OpResolve   = "resolve"
	OpRefresh   = "refresh"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// GameResolver finds today's game for a soccer favorite. A nil game with a
// nil error means there is none.
type GameResolver interface {
	ResolveCurrentGame(ctx context.Context, teamID string) (*models.CurrentGame, error)
}

// TeamPageResolver finds today's games for non-soccer favorites, calling
// onResolved once per hit.
type TeamPageResolver interface {
	FetchAllFavoriteTeamCurrentGames(ctx context.Context, favorites []models.FavoriteTeam, onResolved func(teamID string, game models.CurrentGame)) error
}

type Options struct {
	// Key defaults to DefaultStorageKey.
	Key    string
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// FavoritesService owns the favorites collection and keeps it written
// through to the store. Its operations never return errors: failures are
// logged and the in-memory collection stays authoritative.
type FavoritesService struct {
	store    repository.Store
	key      string
	games    GameResolver
	teamPage TeamPageResolver
	clock    clockwork.Clock
	logger   *slog.Logger

	mu        sync.Mutex
	favorites []models.FavoriteTeam
	// unsaved is set while the in-memory collection is ahead of the store,
	// either after a failed write or while a background write is pending.
	unsaved bool

	loading     atomic.Bool
	reconciling atomic.Int32
	wg          sync.WaitGroup
}

func NewFavoritesService(store repository.Store, games GameResolver, teamPage TeamPageResolver, opts Options) *FavoritesService {
	if opts.Key == "" {
		opts.Key = DefaultStorageKey
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &FavoritesService{
		store:    store,
		key:      opts.Key,
		games:    games,
		teamPage: teamPage,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
	s.loading.Store(true)
	return s
}

// Load reads the persisted collection, migrates it and starts resolving
// current games for every favorite without one. A missing or unreadable
// collection loads as empty.
func (s *FavoritesService) Load(ctx context.Context) []models.FavoriteTeam {
	s.mu.Lock()
	favorites, err := s.readPersisted()
	if err != nil {
		s.logger.Error("Error loading favorites", "op", OpLoad, "error", err)
		favorites = nil
	}
	migrated, changed := MigrateCollection(favorites)
	if changed {
		s.logger.Info("Migrated favorites", "count", len(migrated))
		s.persistLocked(migrated)
	}
	s.favorites = migrated
	snapshot := models.CloneFavorites(migrated)
	s.mu.Unlock()

	s.loading.Store(false)
	if len(missingCurrentGame(snapshot)) > 0 {
		s.goBackground(ctx, func(ctx context.Context) {
			s.PopulateMissingCurrentGames(ctx, snapshot)
		})
	}
	return snapshot
}

// Add appends team unless a favorite with the same canonical key exists.
func (s *FavoritesService) Add(team models.FavoriteTeam) []models.FavoriteTeam {
	key, ok := teamid.Canonicalize(team, team.Sport)
	if !ok {
		s.logger.Warn("Ignoring favorite without an id")
		return s.GetFavoriteTeams()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(key, team)
	return models.CloneFavorites(s.favorites)
}

// Remove deletes the favorite ref resolves to, if any.
func (s *FavoritesService) Remove(ref teamid.Ref) []models.FavoriteTeam {
	key, ok := teamid.Canonicalize(ref, "")
	if !ok {
		return s.GetFavoriteTeams()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(key.Value)
	return models.CloneFavorites(s.favorites)
}

// Toggle removes team if it is a favorite and adds it otherwise. An added
// team without game data has its current game resolved in the background.
func (s *FavoritesService) Toggle(ctx context.Context, team models.FavoriteTeam, game *models.CurrentGame) []models.FavoriteTeam {
	key, ok := teamid.Canonicalize(team, team.Sport)
	if !ok {
		s.logger.Warn("Ignoring favorite without an id")
		return s.GetFavoriteTeams()
	}

	s.mu.Lock()
	if indexOf(s.favorites, key.Value) >= 0 {
		s.removeLocked(key.Value)
		snapshot := models.CloneFavorites(s.favorites)
		s.mu.Unlock()
		return snapshot
	}

	team = team.Clone()
	if game != nil {
		stamped := s.stamp(*game)
		team.CurrentGame = &stamped
	}
	s.addLocked(key, team)
	snapshot := models.CloneFavorites(s.favorites)
	added := s.favorites[indexOf(s.favorites, key.Value)].Clone()
	s.mu.Unlock()

	if added.CurrentGame == nil {
		s.goBackground(ctx, func(ctx context.Context) {
			s.PopulateMissingCurrentGames(ctx, []models.FavoriteTeam{added})
		})
	}
	return snapshot
}

// UpdateTeamCurrentGame attaches game to the favorite for teamID, merging
// against the persisted collection. A record is created when the favorite
// does not exist.
func (s *FavoritesService) UpdateTeamCurrentGame(teamID string, game models.CurrentGame) []models.FavoriteTeam {
	key, ok := teamid.Canonicalize(teamid.ID(teamID), "")
	if !ok {
		return s.GetFavoriteTeams()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.favorites
	if !s.unsaved {
		persisted, err := s.readPersisted()
		if err != nil {
			s.logger.Warn("Merging current game against memory", "op", OpLoad, "team_id", key.Value, "error", err)
		} else {
			base, _ = MigrateCollection(persisted)
		}
	}

	next := withCurrentGame(base, key, s.stamp(game))
	s.persistLocked(next)
	s.favorites = next
	return models.CloneFavorites(next)
}

// GetTeamCurrentGame returns the favorite's current game, or nil.
func (s *FavoritesService) GetTeamCurrentGame(ref teamid.Ref) *models.CurrentGame {
	key, ok := teamid.Canonicalize(ref, "")
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.favorites, key.Value)
	if i < 0 || s.favorites[i].CurrentGame == nil {
		return nil
	}
	game := *s.favorites[i].CurrentGame
	return &game
}

// ClearTeamCurrentGame drops the favorite's current game and returns the
// cleared collection. The write happens in the background.
func (s *FavoritesService) ClearTeamCurrentGame(ctx context.Context, ref teamid.Ref) []models.FavoriteTeam {
	key, ok := teamid.Canonicalize(ref, "")
	if !ok {
		return s.GetFavoriteTeams()
	}

	s.mu.Lock()
	next, changed := withoutCurrentGame(s.favorites, key.Value)
	s.favorites = next
	if changed {
		s.unsaved = true
	}
	snapshot := models.CloneFavorites(next)
	s.mu.Unlock()

	if changed {
		s.goBackground(ctx, func(context.Context) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.persistLocked(s.favorites)
		})
	}
	return snapshot
}

// ClearAllFavorites empties the collection and deletes the persisted key.
func (s *FavoritesService) ClearAllFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = nil
	if err := s.store.Delete(s.key); err != nil {
		s.logger.Error("Error clearing favorites", "op", OpRemoveKey, "error", err)
		s.unsaved = true
		return
	}
	s.unsaved = false
}

// IsFavorite reports whether ref is a favorite. Soccer hints also match the
// same club favorited under another competition; with no hint a suffixed
// ref matches an unsuffixed favorite with the same base id.
func (s *FavoritesService) IsFavorite(ref teamid.Ref, sportHint string) bool {
	key, ok := teamid.Canonicalize(ref, sportHint)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.favorites, key.Value) >= 0 {
		return true
	}

	hint := teamid.NormalizeSport(sportHint)
	if hint != "" {
		if !teamid.IsSoccerCompetition(hint) {
			return false
		}
		for _, fav := range s.favorites {
			base, suffix := teamid.StripSuffix(fav.TeamID)
			if base == key.Base && teamid.IsSoccerCompetition(suffix) {
				return true
			}
		}
		return false
	}

	for _, fav := range s.favorites {
		if !strings.Contains(fav.TeamID, teamid.Separator) && fav.TeamID == key.Base {
			return true
		}
	}
	return false
}

// GetFavoriteTeams returns a copy of the collection.
func (s *FavoritesService) GetFavoriteTeams() []models.FavoriteTeam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneFavorites(s.favorites)
}

// RefreshAllCurrentGames resolves current games for every favorite that
// lacks one and returns the refreshed collection.
func (s *FavoritesService) RefreshAllCurrentGames(ctx context.Context) []models.FavoriteTeam {
	s.PopulateMissingCurrentGames(ctx, s.GetFavoriteTeams())
	return s.GetFavoriteTeams()
}

// ClearCorruptedCurrentGames strips current games attached to a favorite of
// one of sports from a competition outside sports, then re-resolves them in
// the background. sports defaults to DefaultCorruptionSports.
func (s *FavoritesService) ClearCorruptedCurrentGames(ctx context.Context, sports ...string) []models.FavoriteTeam {
	if len(sports) == 0 {
		sports = DefaultCorruptionSports
	}

	s.mu.Lock()
	next, stripped := withoutCorruptedGames(s.favorites, sports)
	if stripped > 0 {
		s.logger.Info("Cleared corrupted current games", "count", stripped, "sports", sports)
		s.persistLocked(next)
		s.favorites = next
	}
	snapshot := models.CloneFavorites(s.favorites)
	s.mu.Unlock()

	s.goBackground(ctx, func(ctx context.Context) {
		s.PopulateMissingCurrentGames(ctx, snapshot)
	})
	return snapshot
}

// Loading reports whether Load has not finished yet.
func (s *FavoritesService) Loading() bool {
	return s.loading.Load()
}

// BackgroundReconciling reports whether a reconciliation run is in flight.
func (s *FavoritesService) BackgroundReconciling() bool {
	return s.reconciling.Load() > 0
}

// Wait blocks until all background work started so far has finished.
func (s *FavoritesService) Wait() {
	s.wg.Wait()
}

func (s *FavoritesService) addLocked(key teamid.Key, team models.FavoriteTeam) {
	next, added := withAdded(s.favorites, key, team)
	if !added {
		s.logger.Debug("Favorite already present", "team_id", key.Value)
		return
	}
	s.persistLocked(next)
	s.favorites = next
}

func (s *FavoritesService) removeLocked(key string) {
	next, removed := withRemoved(s.favorites, key)
	if !removed {
		return
	}
	s.persistLocked(next)
	s.favorites = next
}

func (s *FavoritesService) readPersisted() ([]models.FavoriteTeam, error) {
	raw, ok, err := s.store.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("reading favorites: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var favorites []models.FavoriteTeam
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		return nil, fmt.Errorf("parsing favorites: %w", err)
	}
	return favorites, nil
}

// persistLocked writes favorites through to the store. s.mu must be held.
func (s *FavoritesService) persistLocked(favorites []models.FavoriteTeam) {
	if favorites == nil {
		favorites = []models.FavoriteTeam{}
	}
	data, err := json.Marshal(favorites)
	if err != nil {
		s.logger.Error("Error encoding favorites", "op", OpPersist, "error", err)
		s.unsaved = true
		return
	}
	if err := s.store.Set(s.key, string(data)); err != nil {
		s.logger.Error("Error saving favorites", "op", OpPersist, "error", err)
		s.unsaved = true
		return
	}
	s.unsaved = false
}

func (s *FavoritesService) stamp(game models.CurrentGame) models.CurrentGame {
	game.UpdatedAt = s.clock.Now().UTC().Format(timestampLayout)
	return game
}

func (s *FavoritesService) goBackground(ctx context.Context, fn func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(ctx)
	}()
}
