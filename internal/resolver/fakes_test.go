package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/omarshaarawi/scorekeeper/internal/api/espn"
	"github.com/omarshaarawi/scorekeeper/internal/models"
)

type fakeESPN struct {
	mu         sync.Mutex
	scoreboard map[string][]models.Event
	schedules  map[string][]models.Event
	failing    map[string]error
	calls      []string
	days       []time.Time
}

func newFakeESPN() *fakeESPN {
	return &fakeESPN{
		scoreboard: make(map[string][]models.Event),
		schedules:  make(map[string][]models.Event),
		failing:    make(map[string]error),
	}
}

func (f *fakeESPN) Scoreboard(_ context.Context, league espn.League, day time.Time) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, league.Code)
	f.days = append(f.days, day)
	if err := f.failing[league.Code]; err != nil {
		return nil, err
	}
	return f.scoreboard[league.Code], nil
}

func (f *fakeESPN) TeamSchedule(_ context.Context, league espn.League, teamID string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := league.Code + "/" + teamID
	f.calls = append(f.calls, key)
	if err := f.failing[key]; err != nil {
		return nil, err
	}
	return f.schedules[key], nil
}

func (f *fakeESPN) EventLink(league espn.League, eventID string) string {
	return fmt.Sprintf("core/%s/%s/%s", league.Sport, league.Code, eventID)
}

func (f *fakeESPN) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeMLB struct {
	mu        sync.Mutex
	schedules map[string]*models.MLBScheduleResponse
	err       error
	requests  []string
}

func (f *fakeMLB) Schedule(_ context.Context, teamID string, start, end time.Time) (*models.MLBScheduleResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s:%s", teamID, start.Format(time.DateOnly))
	f.requests = append(f.requests, key)
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.schedules[key]; ok {
		return s, nil
	}
	return &models.MLBScheduleResponse{}, nil
}

func match(id string, at time.Time, state string, teamIDs ...string) models.Event {
	var competitors []models.Competitor
	for _, t := range teamIDs {
		competitors = append(competitors, models.Competitor{ID: t, Team: models.Team{ID: t}})
	}
	return models.Event{
		ID:   id,
		Date: models.ESPNTime{Time: at},
		Competitions: []models.Competition{{
			ID:          id,
			Competitors: competitors,
			Status:      models.Status{Type: models.StatusType{State: state}},
		}},
	}
}
