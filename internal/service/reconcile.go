package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"golang.org/x/sync/errgroup"
)

// PopulateMissingCurrentGames resolves a current game for every favorite
// in favorites that has none. Soccer favorites search the league
// scoreboards one favorite per goroutine; the rest go to the team-page
// resolver in one batch. Each hit is written through as it arrives and
// the collection is re-read from the store once everything settles.
// Resolution failures are logged and never stop sibling lookups.
func (s *FavoritesService) PopulateMissingCurrentGames(ctx context.Context, favorites []models.FavoriteTeam) {
	missing := missingCurrentGame(favorites)
	if len(missing) == 0 {
		return
	}

	s.reconciling.Add(1)
	defer s.reconciling.Add(-1)

	logger := s.logger.With("run_id", uuid.NewString())
	logger.Info("Populating current games", "count", len(missing))

	var soccer, others []models.FavoriteTeam
	for _, fav := range missing {
		if isSoccer(fav) {
			soccer = append(soccer, fav)
		} else {
			others = append(others, fav)
		}
	}

	var g errgroup.Group
	if s.games != nil {
		for _, fav := range soccer {
			teamID := fav.TeamID
			g.Go(func() error {
				game, err := s.games.ResolveCurrentGame(ctx, teamID)
				if err != nil {
					logger.Warn("Error resolving current game", "op", OpResolve, "team_id", teamID, "error", err)
					return nil
				}
				if game == nil {
					logger.Debug("No current game", "team_id", teamID)
					return nil
				}
				s.UpdateTeamCurrentGame(teamID, *game)
				return nil
			})
		}
	}
	if s.teamPage != nil && len(others) > 0 {
		g.Go(func() error {
			err := s.teamPage.FetchAllFavoriteTeamCurrentGames(ctx, others, func(teamID string, game models.CurrentGame) {
				s.UpdateTeamCurrentGame(teamID, game)
			})
			if err != nil {
				logger.Warn("Error fetching team page games", "op", OpResolve, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.reloadFromStore(logger)
	logger.Info("Populated current games")
}

// reloadFromStore replaces the in-memory collection with the persisted one
// unless memory holds writes the store has not seen.
func (s *FavoritesService) reloadFromStore(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsaved {
		return
	}
	persisted, err := s.readPersisted()
	if err != nil {
		logger.Warn("Error refreshing favorites", "op", OpRefresh, "error", err)
		return
	}
	s.favorites, _ = MigrateCollection(persisted)
}
