package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/repository"
	"github.com/omarshaarawi/scorekeeper/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const testStamp = "2024-03-01T12:00:00.000Z"

// fakeStore wraps the memory repository with injectable failures and a
// count of successful writes.
type fakeStore struct {
	repository.Store

	mu        sync.Mutex
	getErr    error
	setErr    error
	deleteErr error
	writes    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{Store: memory.NewRepository()}
}

func (f *fakeStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	err := f.getErr
	f.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return f.Store.Get(key)
}

func (f *fakeStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	if err := f.Store.Set(key, value); err != nil {
		return err
	}
	f.writes++
	return nil
}

func (f *fakeStore) Delete(key string) error {
	f.mu.Lock()
	err := f.deleteErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Store.Delete(key)
}

// FailWith makes subsequent calls return the given errors. Nil clears a
// failure.
func (f *fakeStore) FailWith(get, set, del error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr, f.setErr, f.deleteErr = get, set, del
}

func (f *fakeStore) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

type fakeGames struct {
	mu    sync.Mutex
	games map[string]*models.CurrentGame
	errs  map[string]error
	calls []string
}

func (f *fakeGames) ResolveCurrentGame(_ context.Context, teamID string) (*models.CurrentGame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, teamID)
	if err := f.errs[teamID]; err != nil {
		return nil, err
	}
	game := f.games[teamID]
	if game == nil {
		return nil, nil
	}
	c := *game
	return &c, nil
}

func (f *fakeGames) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeTeamPage struct {
	mu    sync.Mutex
	games map[string]models.CurrentGame
	err   error
	seen  []string
}

func (f *fakeTeamPage) FetchAllFavoriteTeamCurrentGames(_ context.Context, favorites []models.FavoriteTeam, onResolved func(string, models.CurrentGame)) error {
	f.mu.Lock()
	hits := map[string]models.CurrentGame{}
	for _, fav := range favorites {
		f.seen = append(f.seen, fav.TeamID)
		if game, ok := f.games[fav.TeamID]; ok {
			hits[fav.TeamID] = game
		}
	}
	err := f.err
	f.mu.Unlock()

	for id, game := range hits {
		onResolved(id, game)
	}
	return err
}

func (f *fakeTeamPage) Seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

// opRecorder collects the op attribute of every log record.
type opRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *opRecorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

type opHandler struct{ rec *opRecorder }

func (h opHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h opHandler) Handle(_ context.Context, r slog.Record) error {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "op" {
			h.rec.mu.Lock()
			h.rec.ops = append(h.rec.ops, a.Value.String())
			h.rec.mu.Unlock()
		}
		return true
	})
	return nil
}

func (h opHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h opHandler) WithGroup(string) slog.Handler      { return h }

type testEnv struct {
	svc      *FavoritesService
	store    *fakeStore
	games    *fakeGames
	teamPage *fakeTeamPage
	ops      *opRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    newFakeStore(),
		games:    &fakeGames{games: map[string]*models.CurrentGame{}, errs: map[string]error{}},
		teamPage: &fakeTeamPage{games: map[string]models.CurrentGame{}},
		ops:      &opRecorder{},
	}
	env.svc = NewFavoritesService(env.store, env.games, env.teamPage, Options{
		Clock:  clockwork.NewFakeClockAt(testNow),
		Logger: slog.New(opHandler{rec: env.ops}),
	})
	t.Cleanup(env.svc.Wait)
	return env
}

func (e *testEnv) seed(t *testing.T, raw string) {
	t.Helper()
	require.NoError(t, e.store.Set(DefaultStorageKey, raw))
}

func (e *testEnv) persisted(t *testing.T) []models.FavoriteTeam {
	t.Helper()
	raw, ok, err := e.store.Get(DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, ok, "favorites key missing")
	var favorites []models.FavoriteTeam
	require.NoError(t, json.Unmarshal([]byte(raw), &favorites))
	return favorites
}

func team(t *testing.T, raw string) models.FavoriteTeam {
	t.Helper()
	var fav models.FavoriteTeam
	require.NoError(t, json.Unmarshal([]byte(raw), &fav))
	return fav
}
