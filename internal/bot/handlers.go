package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/scorekeeper/internal/models"
	"github.com/omarshaarawi/scorekeeper/internal/teamid"
)

// Favorites is the favorites store surface the bot drives.
type Favorites interface {
	GetFavoriteTeams() []models.FavoriteTeam
	Add(team models.FavoriteTeam) []models.FavoriteTeam
	Remove(ref teamid.Ref) []models.FavoriteTeam
	Toggle(ctx context.Context, team models.FavoriteTeam, game *models.CurrentGame) []models.FavoriteTeam
	IsFavorite(ref teamid.Ref, sportHint string) bool
	GetTeamCurrentGame(ref teamid.Ref) *models.CurrentGame
	ClearTeamCurrentGame(ctx context.Context, ref teamid.Ref) []models.FavoriteTeam
	ClearAllFavorites()
	RefreshAllCurrentGames(ctx context.Context) []models.FavoriteTeam
	ClearCorruptedCurrentGames(ctx context.Context, sports ...string) []models.FavoriteTeam
	Loading() bool
	BackgroundReconciling() bool
}

const helpText = "Available commands:\n" +
	"/favorites - List favorites and their current games\n" +
	"/add <sport> <teamId> [name] - Add a favorite\n" +
	"/remove <teamId|name> - Remove a favorite\n" +
	"/toggle <sport> <teamId> [name] - Add or remove a favorite\n" +
	"/isfav <teamId> [sport] - Check whether a team is a favorite\n" +
	"/game <teamId|name> - Show a favorite's current game\n" +
	"/cleargame <teamId|name> - Forget a favorite's current game\n" +
	"/refresh - Look up games for every favorite\n" +
	"/repair [sports...] - Drop games attached to the wrong sport\n" +
	"/reset - Remove every favorite\n" +
	"/status - Show sync status"

type Handler struct {
	favorites Favorites
}

func NewHandler(favorites Favorites) *Handler {
	return &Handler{favorites: favorites}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch command {
	case "start":
		msg.Text = "Welcome to Scorekeeper! Use /help to see available commands."
	case "help":
		msg.Text = escape(helpText)
	case "favorites":
		h.handleFavorites(&msg)
	case "add":
		h.handleAdd(&msg, args)
	case "remove":
		h.handleRemove(&msg, args)
	case "toggle":
		h.handleToggle(ctx, &msg, args)
	case "isfav":
		h.handleIsFavorite(&msg, args)
	case "game":
		h.handleGame(&msg, args)
	case "cleargame":
		h.handleClearGame(ctx, &msg, args)
	case "refresh":
		h.handleRefresh(ctx, &msg)
	case "repair":
		h.handleRepair(ctx, &msg, args)
	case "reset":
		h.favorites.ClearAllFavorites()
		msg.Text = "All favorites removed."
	case "status":
		h.handleStatus(&msg)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleFavorites(msg *tgbotapi.MessageConfig) {
	favorites := h.favorites.GetFavoriteTeams()
	if len(favorites) == 0 {
		msg.Text = escape("No favorites yet. Use /add <sport> <teamId> [name].")
		return
	}

	var sb strings.Builder
	sb.WriteString("⭐ *Favorites*\n\n")
	for i, fav := range favorites {
		sb.WriteString(fmt.Sprintf("%d. *%s*", i+1, displayName(fav)))
		if fav.Sport != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", escape(fav.Sport)))
		}
		sb.WriteString(fmt.Sprintf(" `%s`\n", code(fav.TeamID)))
		if fav.CurrentGame != nil {
			sb.WriteString("   " + formatGame(*fav.CurrentGame) + "\n")
		}
	}
	msg.Text = sb.String()
}

func (h *Handler) handleAdd(msg *tgbotapi.MessageConfig, args string) {
	team, ok := teamFromArgs(args)
	if !ok {
		msg.Text = escape("Please provide a sport and team id. Usage: /add <sport> <teamId> [name]")
		return
	}
	before := len(h.favorites.GetFavoriteTeams())
	if len(h.favorites.Add(team)) == before {
		msg.Text = fmt.Sprintf("*%s* is already a favorite.", displayName(team))
		return
	}
	msg.Text = fmt.Sprintf("Added *%s* to favorites.", displayName(team))
}

func (h *Handler) handleRemove(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team id or name. Usage: /remove <teamId|name>"
		return
	}
	fav, ok := findFavorite(h.favorites.GetFavoriteTeams(), args)
	if !ok {
		msg.Text = fmt.Sprintf("No favorite matches \"%s\".", escape(args))
		return
	}
	h.favorites.Remove(teamid.ID(fav.TeamID))
	msg.Text = fmt.Sprintf("Removed *%s* from favorites.", displayName(fav))
}

func (h *Handler) handleToggle(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	team, ok := teamFromArgs(args)
	if !ok {
		msg.Text = escape("Please provide a sport and team id. Usage: /toggle <sport> <teamId> [name]")
		return
	}
	if containsTeam(h.favorites.Toggle(ctx, team, nil), team) {
		msg.Text = fmt.Sprintf("Added *%s* to favorites. Looking up its next game.", displayName(team))
	} else {
		msg.Text = fmt.Sprintf("Removed *%s* from favorites.", displayName(team))
	}
}

func (h *Handler) handleIsFavorite(msg *tgbotapi.MessageConfig, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		msg.Text = escape("Please provide a team id. Usage: /isfav <teamId> [sport]")
		return
	}
	id, sport := fields[0], strings.Join(fields[1:], " ")
	if h.favorites.IsFavorite(teamid.ID(id), sport) {
		msg.Text = fmt.Sprintf("`%s` is a favorite.", code(id))
	} else {
		msg.Text = fmt.Sprintf("`%s` is not a favorite.", code(id))
	}
}

func (h *Handler) handleGame(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team id or name. Usage: /game <teamId|name>"
		return
	}
	fav, ok := findFavorite(h.favorites.GetFavoriteTeams(), args)
	if !ok {
		msg.Text = fmt.Sprintf("No favorite matches \"%s\".", escape(args))
		return
	}
	game := h.favorites.GetTeamCurrentGame(teamid.ID(fav.TeamID))
	if game == nil {
		msg.Text = fmt.Sprintf("No game found for *%s*.", displayName(fav))
		return
	}
	msg.Text = fmt.Sprintf("*%s*\n%s", displayName(fav), formatGame(*game))
}

func (h *Handler) handleClearGame(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team id or name. Usage: /cleargame <teamId|name>"
		return
	}
	fav, ok := findFavorite(h.favorites.GetFavoriteTeams(), args)
	if !ok {
		msg.Text = fmt.Sprintf("No favorite matches \"%s\".", escape(args))
		return
	}
	h.favorites.ClearTeamCurrentGame(ctx, teamid.ID(fav.TeamID))
	msg.Text = fmt.Sprintf("Cleared the current game for *%s*.", displayName(fav))
}

func (h *Handler) handleRefresh(ctx context.Context, msg *tgbotapi.MessageConfig) {
	favorites := h.favorites.RefreshAllCurrentGames(ctx)
	msg.Text = fmt.Sprintf("Refreshed %d favorites, %d with a current game.", len(favorites), countGames(favorites))
}

func (h *Handler) handleRepair(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	before := countGames(h.favorites.GetFavoriteTeams())
	after := countGames(h.favorites.ClearCorruptedCurrentGames(ctx, strings.Fields(args)...))
	msg.Text = fmt.Sprintf("Cleared %d mismatched games. Re-resolving in the background.", before-after)
}

func (h *Handler) handleStatus(msg *tgbotapi.MessageConfig) {
	favorites := h.favorites.GetFavoriteTeams()
	msg.Text = fmt.Sprintf("Favorites: %d\nWith current game: %d\nLoading: %t\nReconciling: %t",
		len(favorites), countGames(favorites), h.favorites.Loading(), h.favorites.BackgroundReconciling())
}

func teamFromArgs(args string) (models.FavoriteTeam, bool) {
	sport, id, name, ok := parseTeamArgs(args)
	if !ok {
		return models.FavoriteTeam{}, false
	}
	return models.FavoriteTeam{TeamID: id, Sport: teamid.NormalizeSport(sport), TeamName: name}, true
}

func containsTeam(favorites []models.FavoriteTeam, team models.FavoriteTeam) bool {
	key, ok := teamid.Canonicalize(team, team.Sport)
	if !ok {
		return false
	}
	for _, fav := range favorites {
		if fav.TeamID == key.Value {
			return true
		}
	}
	return false
}

// displayName is escaped for Markdown replies.
func displayName(fav models.FavoriteTeam) string {
	if fav.TeamName != "" {
		return escape(fav.TeamName)
	}
	return escape(fav.TeamID)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// code makes s safe inside a Markdown code span, which has no escapes.
func code(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

func formatGame(game models.CurrentGame) string {
	parts := []string{"🏟️"}
	if game.GameDate != "" {
		parts = append(parts, game.GameDate)
	}
	if game.Competition != "" {
		parts = append(parts, "("+game.Competition+")")
	}
	if game.EventID != "" {
		parts = append(parts, "event "+game.EventID)
	}
	return escape(strings.Join(parts, " "))
}

func countGames(favorites []models.FavoriteTeam) int {
	n := 0
	for _, fav := range favorites {
		if fav.CurrentGame != nil {
			n++
		}
	}
	return n
}
