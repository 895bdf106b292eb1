package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/repository/memory"
	"github.com/omarshaarawi/scorekeeper/internal/service"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func command(text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}}
}

func newTestHandler(t *testing.T) (*Handler, *service.FavoritesService) {
	t.Helper()
	svc := service.NewFavoritesService(memory.NewRepository(), nil, nil, service.Options{})
	svc.Load(context.Background())
	t.Cleanup(svc.Wait)
	return NewHandler(svc), svc
}

func send(h *Handler, text string) string {
	return h.HandleCommand(context.Background(), command(text)).Text
}

func TestHandleCommand_AddAndList(t *testing.T) {
	h, svc := newTestHandler(t)

	assert.Equal(t, "Added *Liverpool* to favorites.", send(h, "/add premier league 364 Liverpool"))
	assert.Equal(t, "*Liverpool* is already a favorite.", send(h, "/add Premier League 364 Liverpool"))
	assert.Equal(t, "Added *Pacers* to favorites.", send(h, "/add nba 11 Pacers"))

	favorites := svc.GetFavoriteTeams()
	require.Len(t, favorites, 2)
	assert.Equal(t, "364_premier league", favorites[0].TeamID)
	assert.Equal(t, "11_nba", favorites[1].TeamID)

	list := send(h, "/favorites")
	assert.Contains(t, list, "1. *Liverpool* (premier league) `364_premier league`")
	assert.Contains(t, list, "2. *Pacers* (nba) `11_nba`")
}

func TestHandleCommand_SameNumberAcrossSports(t *testing.T) {
	h, svc := newTestHandler(t)

	assert.Equal(t, "Added *Pacers* to favorites.", send(h, "/add nba 5 Pacers"))
	assert.Equal(t, "Added *Bears* to favorites.", send(h, "/add nfl 5 Bears"))
	require.Len(t, svc.GetFavoriteTeams(), 2)

	assert.Equal(t, "`5` is a favorite.", send(h, "/isfav 5 nfl"))
	assert.Equal(t, "`5` is not a favorite.", send(h, "/isfav 5 nhl"))
	assert.Equal(t, "Removed *Bears* from favorites.", send(h, "/remove 5_nfl"))
}

func TestHandleCommand_EscapesMarkdown(t *testing.T) {
	h, _ := newTestHandler(t)

	send(h, "/add la liga 86")
	assert.Equal(t, `Added *Foo\_Bar\** to favorites.`, send(h, "/add nba 3 Foo_Bar*"))
	assert.Equal(t, `No favorite matches "86\_serie a".`, send(h, "/remove 86_serie a"))
	assert.Equal(t, "`5'x` is not a favorite.", send(h, "/isfav 5`x"))

	list := send(h, "/favorites")
	assert.Contains(t, list, "`86_la liga`", "ids inside code spans stay unescaped")
	assert.Contains(t, list, `*Foo\_Bar\**`)

	assert.Equal(t, `Removed *86\_la liga* from favorites.`, send(h, "/remove 86_la liga"))
}

func TestHandleCommand_AddUsage(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Contains(t, send(h, "/add"), "Usage: /add")
	assert.Contains(t, send(h, "/add 364"), "Usage: /add")
	assert.Contains(t, send(h, "/add nba Pacers"), "Usage: /add")
}

func TestHandleCommand_RemoveByName(t *testing.T) {
	h, svc := newTestHandler(t)
	send(h, "/add nba 11 Indiana Pacers")
	send(h, "/add nhl 21 Toronto Maple Leafs")

	assert.Equal(t, "Removed *Toronto Maple Leafs* from favorites.", send(h, "/remove maple lefs"))
	assert.Equal(t, "Removed *Indiana Pacers* from favorites.", send(h, "/remove 11"))
	assert.Empty(t, svc.GetFavoriteTeams())
	assert.Contains(t, send(h, "/remove Pacers"), "No favorite matches")
}

func TestHandleCommand_Toggle(t *testing.T) {
	h, svc := newTestHandler(t)

	assert.Contains(t, send(h, "/toggle la liga 86 Real Madrid"), "Added *Real Madrid*")
	assert.True(t, svc.IsFavorite(teamid.ID("86_la liga"), ""))

	assert.Equal(t, "Removed *Real Madrid* from favorites.", send(h, "/toggle la liga 86 Real Madrid"))
	assert.Empty(t, svc.GetFavoriteTeams())
}

func TestHandleCommand_IsFavorite(t *testing.T) {
	h, _ := newTestHandler(t)
	send(h, "/add premier league 100 Club")

	assert.Equal(t, "`100` is a favorite.", send(h, "/isfav 100 uefa champions"))
	assert.Equal(t, "`100` is not a favorite.", send(h, "/isfav 100 nba"))
}

func TestHandleCommand_GameAndClearGame(t *testing.T) {
	h, svc := newTestHandler(t)
	send(h, "/add nba 11 Pacers")

	assert.Equal(t, "No game found for *Pacers*.", send(h, "/game pacers"))

	svc.UpdateTeamCurrentGame("11_nba", models.CurrentGame{EventID: "401", GameDate: "2024-03-01T23:00:00Z", Competition: "nba"})
	assert.Equal(t, "*Pacers*\n🏟️ 2024-03-01T23:00:00Z (nba) event 401", send(h, "/game Pacers"))

	assert.Equal(t, "Cleared the current game for *Pacers*.", send(h, "/cleargame 11"))
	assert.Nil(t, svc.GetTeamCurrentGame(teamid.ID("11_nba")))
}

func TestHandleCommand_RepairResetStatus(t *testing.T) {
	h, svc := newTestHandler(t)
	send(h, "/add nba 11 Pacers")
	svc.UpdateTeamCurrentGame("11_nba", models.CurrentGame{EventID: "9", Competition: "nhl"})

	assert.Equal(t, "Favorites: 1\nWith current game: 1\nLoading: false\nReconciling: false", send(h, "/status"))
	assert.Equal(t, "Cleared 1 mismatched games. Re-resolving in the background.", send(h, "/repair"))
	svc.Wait()
	assert.Nil(t, svc.GetTeamCurrentGame(teamid.ID("11_nba")))

	assert.Equal(t, "Refreshed 1 favorites, 0 with a current game.", send(h, "/refresh"))
	assert.Equal(t, "All favorites removed.", send(h, "/reset"))
	assert.Empty(t, svc.GetFavoriteTeams())
}

func TestHandleCommand_Unknown(t *testing.T) {
	h, _ := newTestHandler(t)
	assert.Contains(t, send(h, "/scores"), "Unknown command")
	assert.Contains(t, send(h, "/help"), "/favorites")
	assert.Contains(t, send(h, "/help"), `/add <sport> <teamId> \[name]`)
}
