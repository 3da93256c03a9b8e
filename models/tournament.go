package models

import (
	"time"
)

// TournamentStatus tracks where a tournament is in its lifecycle:
// active -> voting -> completed, or ended when superseded by a newer tournament.
type TournamentStatus string

const (
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusVoting    TournamentStatus = "voting"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusEnded     TournamentStatus = "ended"
)

const DefaultTheme = "open"

// Tournament is a time-boxed competition with entries and peer ratings
type Tournament struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Theme         string                  `json:"theme"`
	Discipline    *string                 `json:"discipline"` // nil = any discipline
	Prize         int                     `json:"prize"`
	DurationHours int                     `json:"duration_hours"`
	Status        TournamentStatus        `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
	EndsAt        time.Time               `json:"ends_at"`
	EndedAt       *time.Time              `json:"ended_at"`
	Entries       []Entry                 `json:"entries"`
	Ratings       map[string]RatingRecord `json:"ratings"` // keyed by rater name as submitted
	Winner        *Winner                 `json:"winner"`
}

// EntryAuthor mirrors Author, but the wallet is mandatory for tournament entries
type EntryAuthor struct {
	Name   string  `json:"name"`
	URL    *string `json:"url"`
	Wallet string  `json:"wallet"`
}

// Entry is a tournament submission
type Entry struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Discipline  string      `json:"discipline"`
	Technique   string      `json:"technique"`
	Content     string      `json:"content"`
	Explanation string      `json:"explanation"`
	Author      EntryAuthor `json:"author"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// RatingRecord is one rater's full score sheet, replaced wholesale on resubmission
type RatingRecord struct {
	RaterWallet string             `json:"rater_wallet"`
	RatedAt     time.Time          `json:"rated_at"`
	Scores      map[string]float64 `json:"scores"` // entry id -> score in [1,5]
}

// Winner snapshots the top-ranked entry when a tournament is ended
type Winner struct {
	EntryID      string  `json:"entry_id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Wallet       string  `json:"wallet"`
	AverageScore float64 `json:"average_score"`
}

// TournamentCollection is the persisted tournament document.
// Current points at the tournament accepting entries/ratings, if any.
type TournamentCollection struct {
	Tournaments []Tournament `json:"tournaments"`
	Current     *string      `json:"current"`
}

// Find returns a pointer into the collection, or nil.
func (c *TournamentCollection) Find(id string) *Tournament {
	for i := range c.Tournaments {
		if c.Tournaments[i].ID == id {
			return &c.Tournaments[i]
		}
	}
	return nil
}

// CurrentTournament resolves the current pointer, or nil.
func (c *TournamentCollection) CurrentTournament() *Tournament {
	if c.Current == nil {
		return nil
	}
	return c.Find(*c.Current)
}

// PublicEntry is an entry as listed to participants (no wallet)
type PublicEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Discipline  string    `json:"discipline"`
	Technique   string    `json:"technique"`
	Content     string    `json:"content"`
	Explanation string    `json:"explanation"`
	Author      string    `json:"author"`
	AuthorURL   *string   `json:"author_url"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TournamentStatusView is returned for the current tournament
type TournamentStatusView struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Theme           string           `json:"theme"`
	Discipline      *string          `json:"discipline"`
	Prize           int              `json:"prize"`
	DurationHours   int              `json:"duration_hours"`
	Status          TournamentStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	EndsAt          time.Time        `json:"ends_at"`
	TimeRemainingMs int64            `json:"time_remaining_ms"`
	EntryCount      int              `json:"entry_count"`
	RaterCount      int              `json:"rater_count"`
}

// TournamentSummary represents a brief summary of a tournament for listing
type TournamentSummary struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Theme      string           `json:"theme"`
	Discipline *string          `json:"discipline"`
	Prize      int              `json:"prize"`
	Status     TournamentStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	EndsAt     time.Time        `json:"ends_at"`
	EndedAt    *time.Time       `json:"ended_at"`
	EntryCount int              `json:"entry_count"`
	RaterCount int              `json:"rater_count"`
	Winner     *Winner          `json:"winner"`
}

// RankedEntry is one row of a results table
type RankedEntry struct {
	Rank         int     `json:"rank"`
	EntryID      string  `json:"entry_id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Wallet       string  `json:"-"`
	AverageScore float64 `json:"average_score"`
	RatingCount  int     `json:"rating_count"`
}

// TournamentResults is the ranking view of a tournament
type TournamentResults struct {
	TournamentID   string           `json:"tournament_id"`
	Title          string           `json:"title"`
	Status         TournamentStatus `json:"status"`
	TotalEntries   int              `json:"total_entries"`
	TotalRaters    int              `json:"total_raters"`
	VotingComplete bool             `json:"voting_complete"`
	Rankings       []RankedEntry    `json:"rankings"`
	Winner         *Winner          `json:"winner"`
}
