package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/scorekeeper/internal/models"
)

// Refresher re-resolves current games for every favorite.
type Refresher interface {
	RefreshAllCurrentGames(ctx context.Context) []models.FavoriteTeam
}

type Scheduler struct {
	s           gocron.Scheduler
	refresher   Refresher
	sendMessage func(string) error
	cron        string
	job         gocron.Job
	ctx         context.Context
	cancel      context.CancelFunc

	// announced holds the games already reported; only the refresh job
	// touches it and singleton mode keeps runs from overlapping.
	announced map[string]bool
}

// NewScheduler builds a scheduler that refreshes favorites on cron in
// location. sendMessage may be nil; otherwise it receives a summary of
// games found since the previous run.
func NewScheduler(refresher Refresher, sendMessage func(string) error, cron string, location *time.Location, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	if location == nil {
		location = time.Local
	}
	opts = append([]gocron.SchedulerOption{gocron.WithLocation(location)}, opts...)

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		s:           s,
		refresher:   refresher,
		sendMessage: sendMessage,
		cron:        cron,
		ctx:         ctx,
		cancel:      cancel,
		announced:   make(map[string]bool),
	}, nil
}

func (s *Scheduler) Start() error {
	job, err := s.s.NewJob(
		gocron.CronJob(s.cron, false),
		gocron.NewTask(s.refresh),
		gocron.WithName("refresh-current-games"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}
	s.job = job

	s.s.Start()
	return nil
}

// RunNow triggers the refresh job outside its schedule.
func (s *Scheduler) RunNow() error {
	if s.job == nil {
		return fmt.Errorf("scheduler not started")
	}
	return s.job.RunNow()
}

func (s *Scheduler) Stop() error {
	s.cancel()
	return s.s.Shutdown()
}

func (s *Scheduler) refresh() {
	start := time.Now()
	favorites := s.refresher.RefreshAllCurrentGames(s.ctx)

	var fresh []models.FavoriteTeam
	withGame := 0
	for _, fav := range favorites {
		if fav.CurrentGame == nil {
			continue
		}
		withGame++
		key := fav.TeamID + ":" + fav.CurrentGame.EventID
		if !s.announced[key] {
			s.announced[key] = true
			fresh = append(fresh, fav)
		}
	}
	slog.Info("Refreshed current games",
		"favorites", len(favorites),
		"with_game", withGame,
		"new", len(fresh),
		"duration", time.Since(start))

	if s.sendMessage == nil || len(fresh) == 0 {
		return
	}
	if err := s.sendMessage(gamesReport(fresh)); err != nil {
		slog.Error("Failed to send games report", "error", err)
	}
}

// gamesReport renders a Markdown summary with every field escaped.
func gamesReport(favorites []models.FavoriteTeam) string {
	escape := func(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s) }
	var sb strings.Builder
	sb.WriteString("📅 *Upcoming games*\n\n")
	for _, fav := range favorites {
		name := fav.TeamName
		if name == "" {
			name = fav.TeamID
		}
		sb.WriteString(fmt.Sprintf("• *%s*", escape(name)))
		if fav.CurrentGame.GameDate != "" {
			sb.WriteString(" " + escape(fav.CurrentGame.GameDate))
		}
		if fav.CurrentGame.Competition != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", escape(fav.CurrentGame.Competition)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
