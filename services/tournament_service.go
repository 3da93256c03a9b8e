package services

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"crucible-api/models"
	"crucible-api/store"
)

// TournamentService owns the tournament document. Every operation loads the
// collection, applies the lazy active -> voting rule to the tournaments it
// touches, and persists only when something changed.
type TournamentService struct {
	Docs *store.Documents
	Now  func() time.Time
}

func NewTournamentService(docs *store.Documents) *TournamentService {
	return &TournamentService{Docs: docs, Now: time.Now}
}

type CreateTournamentRequest struct {
	Title         string `json:"title"`
	Theme         string `json:"theme"`
	Discipline    string `json:"discipline"`
	Prize         *int   `json:"prize"`
	DurationHours *int   `json:"duration_hours"`
}

type EnterRequest struct {
	Title       string      `json:"title"`
	Discipline  string      `json:"discipline"`
	Technique   string      `json:"technique"`
	Content     string      `json:"content"`
	Explanation string      `json:"explanation"`
	Author      AuthorInput `json:"author"`
}

type EnterResult struct {
	TournamentID string `json:"tournament_id"`
	EntryID      string `json:"entry_id"`
	EntryCount   int    `json:"entry_count"`
}

type RatingInput struct {
	EntryID string   `json:"entry_id"`
	Score   *float64 `json:"score"`
}

type RateRequest struct {
	RaterName   string        `json:"rater_name"`
	RaterWallet string        `json:"rater_wallet"`
	Ratings     []RatingInput `json:"ratings"`
}

type RateResult struct {
	TournamentID string `json:"tournament_id"`
	RatedEntries int    `json:"rated_entries"`
}

type EntriesResult struct {
	TournamentID *string              `json:"tournament_id"`
	Status       string               `json:"status,omitempty"`
	Entries      []models.PublicEntry `json:"entries"`
	Message      string               `json:"message,omitempty"`
}

type EndResult struct {
	TournamentID string         `json:"tournament_id"`
	Winner       *models.Winner `json:"winner"`
	Prize        int            `json:"prize"`
}

type TournamentList struct {
	Tournaments []models.TournamentSummary `json:"tournaments"`
	Current     *string                    `json:"current"`
}

func (s *TournamentService) now() time.Time {
	return s.Now().UTC()
}

// outcome lets a mutator report a client error while still persisting a
// lazy status change it made before failing.
type outcome struct {
	changed bool
	err     error
}

func (o *outcome) fail(err error) error {
	o.err = err
	if o.changed {
		return nil
	}
	return store.ErrUnchanged
}

func (o *outcome) done() error {
	if o.changed {
		return nil
	}
	return store.ErrUnchanged
}

// Create starts a new tournament, force-ending whatever was current
func (s *TournamentService) Create(ctx context.Context, req CreateTournamentRequest) (*models.Tournament, error) {
	if blankTitle(req.Title) || req.Prize == nil || req.DurationHours == nil {
		return nil, validationError("Missing required fields: title, prize, duration_hours")
	}
	if *req.DurationHours < 0 {
		return nil, validationError("duration_hours must be a non-negative integer")
	}
	if *req.Prize < 0 {
		return nil, validationError("prize must be a non-negative integer")
	}

	var discipline *string
	if req.Discipline != "" {
		d, ok := models.NormalizeDiscipline(req.Discipline)
		if !ok {
			return nil, invalidDisciplineError()
		}
		discipline = &d
	}

	now := s.now()
	t := models.Tournament{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Theme:         stringOr(&req.Theme, models.DefaultTheme),
		Discipline:    discipline,
		Prize:         *req.Prize,
		DurationHours: *req.DurationHours,
		Status:        models.TournamentStatusActive,
		CreatedAt:     now,
		EndsAt:        now.Add(time.Duration(*req.DurationHours) * time.Hour),
		Entries:       []models.Entry{},
		Ratings:       map[string]models.RatingRecord{},
	}

	var coll models.TournamentCollection
	var superseded string
	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		if prev := coll.CurrentTournament(); prev != nil {
			endedAt := now
			prev.Status = models.TournamentStatusEnded
			prev.EndedAt = &endedAt
			superseded = prev.Title
		}
		coll.Tournaments = append(coll.Tournaments, t)
		coll.Current = &t.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if superseded != "" {
		log.Printf("[TOURNAMENT] %q ended early, superseded by %q", superseded, t.Title)
	}
	log.Printf("🏆 [TOURNAMENT] Created %q (%s), prize %d, ends %s",
		t.Title, t.ID, t.Prize, t.EndsAt.Format(time.RFC3339))
	return &t, nil
}

// Current returns the status view of the current tournament, or nil
func (s *TournamentService) Current(ctx context.Context) (*models.TournamentStatusView, error) {
	now := s.now()
	var coll models.TournamentCollection
	var view *models.TournamentStatusView

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		t := coll.CurrentTournament()
		if t == nil {
			return store.ErrUnchanged
		}
		o := outcome{changed: advance(t, now)}
		v := statusView(t, now)
		view = &v
		return o.done()
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Enter adds an entry to the current tournament. If the submission period
// turns out to be over, the tournament is moved to voting and persisted even
// though the entry is refused.
func (s *TournamentService) Enter(ctx context.Context, req EnterRequest) (*EnterResult, error) {
	if blankTitle(req.Title) || req.Discipline == "" || req.Content == "" || req.Author.Name == "" || req.Author.Wallet == "" {
		return nil, validationError("Missing required fields: title, discipline, content, author.name, author.wallet")
	}
	if !ValidWallet(req.Author.Wallet) {
		return nil, validationError("Invalid wallet address. Must be a 0x-prefixed 40 character hex address")
	}
	discipline, ok := models.NormalizeDiscipline(req.Discipline)
	if !ok {
		return nil, invalidDisciplineError()
	}

	now := s.now()
	var coll models.TournamentCollection
	var o outcome
	var result EnterResult
	var author string

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		t := coll.CurrentTournament()
		if t == nil {
			return o.fail(conflictError("No active tournament"))
		}
		if t.Status != models.TournamentStatusActive {
			return o.fail(conflictError("Tournament is not accepting entries (status: %s)", t.Status))
		}
		if o.changed = advance(t, now); o.changed {
			return o.fail(conflictError("Tournament submission period has ended"))
		}
		if t.Discipline != nil && !strings.EqualFold(*t.Discipline, discipline) {
			return o.fail(conflictError("This tournament only accepts %s entries", *t.Discipline))
		}
		key := identityKey(req.Author.Name)
		for _, e := range t.Entries {
			if identityKey(e.Author.Name) == key {
				return o.fail(conflictError("%s has already entered this tournament", req.Author.Name))
			}
		}

		entry := models.Entry{
			ID:          uuid.NewString(),
			Title:       req.Title,
			Discipline:  discipline,
			Technique:   stringOr(&req.Technique, models.DefaultTechnique),
			Content:     req.Content,
			Explanation: req.Explanation,
			Author: models.EntryAuthor{
				Name:   req.Author.Name,
				URL:    optionalString(&req.Author.URL),
				Wallet: req.Author.Wallet,
			},
			SubmittedAt: now,
		}
		t.Entries = append(t.Entries, entry)
		result = EnterResult{TournamentID: t.ID, EntryID: entry.ID, EntryCount: len(t.Entries)}
		author = entry.Author.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	if o.err != nil {
		return nil, o.err
	}

	log.Printf("[TOURNAMENT] New entry %q by %s (%d total)", req.Title, author, result.EntryCount)
	return &result, nil
}

// Entries lists a tournament's entries without wallets. An empty id means the
// current tournament.
func (s *TournamentService) Entries(ctx context.Context, tournamentID string) (*EntriesResult, error) {
	now := s.now()
	var coll models.TournamentCollection
	var o outcome
	result := &EntriesResult{Entries: []models.PublicEntry{}}

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		t, err := resolve(&coll, tournamentID)
		if err != nil {
			return o.fail(err)
		}
		if t == nil {
			result.Message = "No active tournament"
			return store.ErrUnchanged
		}
		o.changed = advance(t, now)

		id := t.ID
		result.TournamentID = &id
		result.Status = string(t.Status)
		for _, e := range t.Entries {
			result.Entries = append(result.Entries, publicEntry(e))
		}
		return o.done()
	})
	if err != nil {
		return nil, err
	}
	if o.err != nil {
		return nil, o.err
	}
	return result, nil
}

// Rate stores a participant's score sheet for the current tournament,
// replacing any earlier sheet from the same rater name.
func (s *TournamentService) Rate(ctx context.Context, req RateRequest) (*RateResult, error) {
	if req.RaterName == "" || req.RaterWallet == "" || req.Ratings == nil {
		return nil, validationError("Missing required fields: rater_name, rater_wallet, ratings")
	}
	if !ValidWallet(req.RaterWallet) {
		return nil, validationError("Invalid wallet address. Must be a 0x-prefixed 40 character hex address")
	}

	now := s.now()
	var coll models.TournamentCollection
	var o outcome
	var result RateResult

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		t := coll.CurrentTournament()
		if t == nil {
			return o.fail(conflictError("No active tournament"))
		}
		o.changed = advance(t, now)

		if !isParticipant(t, req.RaterName) {
			return o.fail(forbiddenError("Only tournament participants can rate entries"))
		}

		entryIDs := make(map[string]bool, len(t.Entries))
		for _, e := range t.Entries {
			entryIDs[e.ID] = true
		}

		scores := make(map[string]float64, len(req.Ratings))
		for _, r := range req.Ratings {
			if r.EntryID == "" || r.Score == nil {
				return o.fail(validationError("Each rating requires entry_id and a numeric score"))
			}
			score := *r.Score
			if math.IsNaN(score) || score < 1 || score > 5 {
				return o.fail(validationError("Score must be between 1 and 5 (entry %s)", r.EntryID))
			}
			if !entryIDs[r.EntryID] {
				return o.fail(validationError("Invalid entry_id: %s", r.EntryID))
			}
			scores[r.EntryID] = score
		}

		if t.Ratings == nil {
			t.Ratings = map[string]models.RatingRecord{}
		}
		t.Ratings[req.RaterName] = models.RatingRecord{
			RaterWallet: req.RaterWallet,
			RatedAt:     now,
			Scores:      scores,
		}
		result = RateResult{TournamentID: t.ID, RatedEntries: len(scores)}
		o.changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if o.err != nil {
		return nil, o.err
	}

	log.Printf("[TOURNAMENT] %s rated %d entries", req.RaterName, result.RatedEntries)
	return &result, nil
}

// Results ranks a tournament's entries. An empty id means the current tournament.
func (s *TournamentService) Results(ctx context.Context, tournamentID string) (*models.TournamentResults, error) {
	now := s.now()
	var coll models.TournamentCollection
	var o outcome
	var results *models.TournamentResults

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		t, err := resolve(&coll, tournamentID)
		if err != nil {
			return o.fail(err)
		}
		if t == nil {
			return o.fail(notFoundError("No active tournament"))
		}
		o.changed = advance(t, now)

		ranked := RankEntries(t)
		for i := range ranked {
			ranked[i].AverageScore = round2(ranked[i].AverageScore)
		}
		results = &models.TournamentResults{
			TournamentID: t.ID,
			Title:        t.Title,
			Status:       t.Status,
			TotalEntries: len(t.Entries),
			TotalRaters:  len(t.Ratings),
			// counts only: a rater who scored nothing still counts
			VotingComplete: len(t.Ratings) == len(t.Entries),
			Rankings:       ranked,
			Winner:         t.Winner,
		}
		return o.done()
	})
	if err != nil {
		return nil, err
	}
	if o.err != nil {
		return nil, o.err
	}
	return results, nil
}

// End declares the winner and completes a tournament. An empty id means the
// current tournament. The current pointer is cleared whichever tournament
// was ended.
func (s *TournamentService) End(ctx context.Context, tournamentID string) (*EndResult, error) {
	now := s.now()
	var coll models.TournamentCollection
	var result EndResult

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		t, err := resolve(&coll, tournamentID)
		if err != nil {
			return err
		}
		if t == nil {
			return notFoundError("No tournament to end")
		}
		if t.Status == models.TournamentStatusCompleted {
			return conflictError("Tournament already ended")
		}

		winner := winnerOf(RankEntries(t))
		endedAt := now
		t.Winner = winner
		t.Status = models.TournamentStatusCompleted
		t.EndedAt = &endedAt
		coll.Current = nil

		result = EndResult{TournamentID: t.ID, Winner: winner, Prize: t.Prize}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Winner != nil {
		log.Printf("🏆 [TOURNAMENT] %s won (avg %.2f), prize %d", result.Winner.Author, result.Winner.AverageScore, result.Prize)
	} else {
		log.Printf("[TOURNAMENT] %s completed with no entries", result.TournamentID)
	}
	return &result, nil
}

// List summarises every tournament
func (s *TournamentService) List(ctx context.Context) (*TournamentList, error) {
	now := s.now()
	var coll models.TournamentCollection
	var o outcome
	list := &TournamentList{Tournaments: []models.TournamentSummary{}}

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		for i := range coll.Tournaments {
			t := &coll.Tournaments[i]
			if advance(t, now) {
				o.changed = true
			}
			list.Tournaments = append(list.Tournaments, summary(t))
		}
		list.Current = coll.Current
		return o.done()
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SweepExpired moves every expired active tournament into voting and returns
// how many moved.
func (s *TournamentService) SweepExpired(ctx context.Context) (int, error) {
	now := s.now()
	var coll models.TournamentCollection
	moved := 0

	err := s.Docs.Update(ctx, store.DocTournaments, &coll, func() error {
		for i := range coll.Tournaments {
			if advance(&coll.Tournaments[i], now) {
				moved++
			}
		}
		if moved == 0 {
			return store.ErrUnchanged
		}
		return nil
	})
	return moved, err
}

// resolve picks the tournament named by id, or the current one when id is
// empty. (nil, nil) means there was nothing to resolve.
func resolve(coll *models.TournamentCollection, id string) (*models.Tournament, error) {
	if id == "" {
		return coll.CurrentTournament(), nil
	}
	t := coll.Find(id)
	if t == nil {
		return nil, notFoundError("Tournament not found")
	}
	return t, nil
}

func isParticipant(t *models.Tournament, name string) bool {
	key := identityKey(name)
	for _, e := range t.Entries {
		if identityKey(e.Author.Name) == key {
			return true
		}
	}
	return false
}

func statusView(t *models.Tournament, now time.Time) models.TournamentStatusView {
	remaining := t.EndsAt.Sub(now).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	return models.TournamentStatusView{
		ID:              t.ID,
		Title:           t.Title,
		Theme:           t.Theme,
		Discipline:      t.Discipline,
		Prize:           t.Prize,
		DurationHours:   t.DurationHours,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		EndsAt:          t.EndsAt,
		TimeRemainingMs: remaining,
		EntryCount:      len(t.Entries),
		RaterCount:      len(t.Ratings),
	}
}

func summary(t *models.Tournament) models.TournamentSummary {
	return models.TournamentSummary{
		ID:         t.ID,
		Title:      t.Title,
		Theme:      t.Theme,
		Discipline: t.Discipline,
		Prize:      t.Prize,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		EndsAt:     t.EndsAt,
		EndedAt:    t.EndedAt,
		EntryCount: len(t.Entries),
		RaterCount: len(t.Ratings),
		Winner:     t.Winner,
	}
}

func publicEntry(e models.Entry) models.PublicEntry {
	return models.PublicEntry{
		ID:          e.ID,
		Title:       e.Title,
		Discipline:  e.Discipline,
		Technique:   e.Technique,
		Content:     e.Content,
		Explanation: e.Explanation,
		Author:      e.Author.Name,
		AuthorURL:   e.Author.URL,
		SubmittedAt: e.SubmittedAt,
	}
}
