package models

import "strings"

// MLBScheduleResponse is the MLB Stats API schedule payload.
type MLBScheduleResponse struct {
	Dates []MLBScheduleDate `json:"dates"`
}

type MLBScheduleDate struct {
	Date  string    `json:"date"`
	Games []MLBGame `json:"games"`
}

type MLBGame struct {
	GamePk   int64     `json:"gamePk"`
	Link     string    `json:"link"`
	GameDate string    `json:"gameDate"`
	Status   MLBStatus `json:"status"`
}

type MLBStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	CodedGameState    string `json:"codedGameState"`
}

func (s MLBStatus) IsLive() bool {
	return s.AbstractGameState == "Live" ||
		(s.AbstractGameState == "Preview" && s.DetailedState == "In Progress") ||
		s.DetailedState == "Manager challenge" ||
		s.CodedGameState == "M"
}

func (s MLBStatus) IsScheduled() bool {
	return s.AbstractGameState == "Preview" || strings.Contains(s.DetailedState, "Scheduled")
}
