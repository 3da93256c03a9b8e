package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crucible-api/models"
	"crucible-api/store"
)

func newTournamentService(t *testing.T) (*TournamentService, *testClock) {
	t.Helper()
	clock := newTestClock()
	svc := NewTournamentService(newDocs(t))
	svc.Now = clock.Now
	return svc, clock
}

func createTournament(t *testing.T, svc *TournamentService, hours int, discipline string) *models.Tournament {
	t.Helper()
	tour, err := svc.Create(context.Background(), CreateTournamentRequest{
		Title:         "Spring Open",
		Discipline:    discipline,
		Prize:         intPtr(1000),
		DurationHours: intPtr(hours),
	})
	require.NoError(t, err)
	return tour
}

func entry(title, name, wallet string) EnterRequest {
	return EnterRequest{
		Title:      title,
		Discipline: "chorus",
		Content:    "many voices, one prompt",
		Author:     AuthorInput{Name: name, Wallet: wallet},
	}
}

func enter(t *testing.T, svc *TournamentService, name, wallet string) string {
	t.Helper()
	res, err := svc.Enter(context.Background(), entry(name+"'s piece", name, wallet))
	require.NoError(t, err)
	return res.EntryID
}

func storedTournaments(t *testing.T, svc *TournamentService) models.TournamentCollection {
	t.Helper()
	var coll models.TournamentCollection
	require.NoError(t, svc.Docs.Load(context.Background(), store.DocTournaments, &coll))
	return coll
}

func TestDeriveStatus(t *testing.T) {
	ends := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		status models.TournamentStatus
		now    time.Time
		want   models.TournamentStatus
	}{
		{models.TournamentStatusActive, ends.Add(-time.Minute), models.TournamentStatusActive},
		{models.TournamentStatusActive, ends, models.TournamentStatusActive},
		{models.TournamentStatusActive, ends.Add(time.Millisecond), models.TournamentStatusVoting},
		{models.TournamentStatusVoting, ends.Add(time.Hour), models.TournamentStatusVoting},
		{models.TournamentStatusCompleted, ends.Add(time.Hour), models.TournamentStatusCompleted},
		{models.TournamentStatusEnded, ends.Add(time.Hour), models.TournamentStatusEnded},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%s", tt.status, tt.now.Format(time.TimeOnly)), func(t *testing.T) {
			tour := &models.Tournament{Status: tt.status, EndsAt: ends}
			assert.Equal(t, tt.want, DeriveStatus(tour, tt.now))
			assert.Equal(t, tt.status, tour.Status)
		})
	}
}

func TestCreateTournament(t *testing.T) {
	svc, clock := newTournamentService(t)

	tour, err := svc.Create(context.Background(), CreateTournamentRequest{
		Title:         "<i>Spring</i> Open",
		Prize:         intPtr(500),
		DurationHours: intPtr(48),
	})
	require.NoError(t, err)

	assert.Equal(t, "<i>Spring</i> Open", tour.Title)
	assert.Equal(t, models.DefaultTheme, tour.Theme)
	assert.Nil(t, tour.Discipline)
	assert.Equal(t, models.TournamentStatusActive, tour.Status)
	assert.True(t, tour.EndsAt.Equal(clock.Now().Add(48*time.Hour)))
	assert.Empty(t, tour.Entries)
	assert.Nil(t, tour.Winner)

	coll := storedTournaments(t, svc)
	require.NotNil(t, coll.Current)
	assert.Equal(t, tour.ID, *coll.Current)
}

func TestCreateTournamentNormalizesDiscipline(t *testing.T) {
	svc, _ := newTournamentService(t)
	tour := createTournament(t, svc, 24, "Chorus")
	require.NotNil(t, tour.Discipline)
	assert.Equal(t, "chorus", *tour.Discipline)
}

func TestCreateTournamentValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTournamentRequest
	}{
		{"missing title", CreateTournamentRequest{Prize: intPtr(1), DurationHours: intPtr(1)}},
		{"missing prize", CreateTournamentRequest{Title: "T", DurationHours: intPtr(1)}},
		{"missing duration", CreateTournamentRequest{Title: "T", Prize: intPtr(1)}},
		{"negative duration", CreateTournamentRequest{Title: "T", Prize: intPtr(1), DurationHours: intPtr(-1)}},
		{"negative prize", CreateTournamentRequest{Title: "T", Prize: intPtr(-5), DurationHours: intPtr(1)}},
		{"unknown discipline", CreateTournamentRequest{Title: "T", Prize: intPtr(1), DurationHours: intPtr(1), Discipline: "oil"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTournamentService(t)
			_, err := svc.Create(context.Background(), tt.req)
			requireKind(t, err, KindValidation)
			assert.Empty(t, storedTournaments(t, svc).Tournaments)
		})
	}
}

func TestCreateSupersedesCurrent(t *testing.T) {
	svc, clock := newTournamentService(t)
	first := createTournament(t, svc, 24, "")
	clock.Advance(time.Hour)
	second := createTournament(t, svc, 24, "")

	coll := storedTournaments(t, svc)
	require.Len(t, coll.Tournaments, 2)
	require.NotNil(t, coll.Current)
	assert.Equal(t, second.ID, *coll.Current)

	old := coll.Find(first.ID)
	require.NotNil(t, old)
	assert.Equal(t, models.TournamentStatusEnded, old.Status)
	require.NotNil(t, old.EndedAt)
	assert.True(t, old.EndedAt.Equal(clock.Now()))
	assert.Nil(t, old.Winner)
}

func TestCurrentWithoutTournament(t *testing.T) {
	svc, _ := newTournamentService(t)
	view, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestCurrentPersistsVotingTransition(t *testing.T) {
	svc, clock := newTournamentService(t)
	createTournament(t, svc, 2, "")
	enter(t, svc, "Ada", walletAda)

	clock.Advance(30 * time.Minute)
	view, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, models.TournamentStatusActive, view.Status)
	assert.Equal(t, int64(90*60*1000), view.TimeRemainingMs)
	assert.Equal(t, 1, view.EntryCount)
	assert.Equal(t, 0, view.RaterCount)

	clock.Advance(3 * time.Hour)
	view, err = svc.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, models.TournamentStatusVoting, view.Status)
	assert.Equal(t, int64(0), view.TimeRemainingMs)

	coll := storedTournaments(t, svc)
	assert.Equal(t, models.TournamentStatusVoting, coll.Tournaments[0].Status)
}

func TestEnterTournament(t *testing.T) {
	svc, _ := newTournamentService(t)
	tour := createTournament(t, svc, 24, "")

	res, err := svc.Enter(context.Background(), entry("Chorale", "Ada", walletAda))
	require.NoError(t, err)
	assert.Equal(t, tour.ID, res.TournamentID)
	assert.NotEmpty(t, res.EntryID)
	assert.Equal(t, 1, res.EntryCount)

	res, err = svc.Enter(context.Background(), entry("Echoes", "Grace", walletGrace))
	require.NoError(t, err)
	assert.Equal(t, 2, res.EntryCount)

	stored := storedTournaments(t, svc).Tournaments[0]
	require.Len(t, stored.Entries, 2)
	assert.Equal(t, walletAda, stored.Entries[0].Author.Wallet)
	assert.Equal(t, models.DefaultTechnique, stored.Entries[0].Technique)
}

func TestEnterValidation(t *testing.T) {
	tests := []struct {
		name string
		req  EnterRequest
	}{
		{"missing wallet", entry("Chorale", "Ada", "")},
		{"invalid wallet", entry("Chorale", "Ada", "0xnothex")},
		{"missing title", entry("", "Ada", walletAda)},
		{"missing author", entry("Chorale", "", walletAda)},
		{"unknown discipline", EnterRequest{Title: "Chorale", Discipline: "oil", Content: "c", Author: AuthorInput{Name: "Ada", Wallet: walletAda}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTournamentService(t)
			createTournament(t, svc, 24, "")
			_, err := svc.Enter(context.Background(), tt.req)
			requireKind(t, err, KindValidation)
			assert.Empty(t, storedTournaments(t, svc).Tournaments[0].Entries)
		})
	}
}

func TestEnterWithoutTournament(t *testing.T) {
	svc, _ := newTournamentService(t)
	_, err := svc.Enter(context.Background(), entry("Chorale", "Ada", walletAda))
	requireKind(t, err, KindConflict)
}

func TestEnterRejectsDuplicateAuthorIgnoringCase(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")
	enter(t, svc, "Ada", walletAda)

	_, err := svc.Enter(context.Background(), entry("Another", "ADA", walletGrace))
	requireKind(t, err, KindConflict)
	assert.Len(t, storedTournaments(t, svc).Tournaments[0].Entries, 1)
}

func TestEnterHonoursDisciplineRestriction(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "tokencraft")

	_, err := svc.Enter(context.Background(), entry("Chorale", "Ada", walletAda))
	requireKind(t, err, KindConflict)
	assert.Contains(t, err.Error(), "tokencraft")

	req := entry("Tokens", "Ada", walletAda)
	req.Discipline = "TokenCraft"
	res, err := svc.Enter(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.EntryCount)
}

func TestEnterAfterDeadlineMovesToVoting(t *testing.T) {
	svc, clock := newTournamentService(t)
	createTournament(t, svc, 1, "")
	clock.Advance(2 * time.Hour)

	_, err := svc.Enter(context.Background(), entry("Late", "Ada", walletAda))
	requireKind(t, err, KindConflict)

	stored := storedTournaments(t, svc).Tournaments[0]
	assert.Equal(t, models.TournamentStatusVoting, stored.Status)
	assert.Empty(t, stored.Entries)

	_, err = svc.Enter(context.Background(), entry("Later", "Grace", walletGrace))
	requireKind(t, err, KindConflict)
	assert.Contains(t, err.Error(), "voting")
}

func TestZeroDurationTournamentClosesImmediately(t *testing.T) {
	svc, clock := newTournamentService(t)
	tour, err := svc.Create(context.Background(), CreateTournamentRequest{
		Title:         "Flash",
		Prize:         intPtr(10),
		DurationHours: intPtr(0),
	})
	require.NoError(t, err)
	assert.True(t, tour.EndsAt.Equal(tour.CreatedAt))
	assert.Equal(t, models.TournamentStatusActive, tour.Status)

	clock.Advance(time.Nanosecond)
	_, err = svc.Enter(context.Background(), entry("Too late", "Ada", walletAda))
	requireKind(t, err, KindConflict)
	assert.Contains(t, err.Error(), "submission period has ended")

	stored := storedTournaments(t, svc)
	require.Len(t, stored.Tournaments, 1)
	assert.Equal(t, models.TournamentStatusVoting, stored.Tournaments[0].Status)
	assert.Empty(t, stored.Tournaments[0].Entries)

	res, err := svc.End(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, res.Winner)
	assert.Equal(t, 10, res.Prize)

	stored = storedTournaments(t, svc)
	assert.Nil(t, stored.Current)
	assert.Equal(t, models.TournamentStatusCompleted, stored.Tournaments[0].Status)
	assert.NotNil(t, stored.Tournaments[0].EndedAt)
	assert.Nil(t, stored.Tournaments[0].Winner)
}

func TestConcurrentEntriesAreAllKept(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Enter(context.Background(), entry("Piece", fmt.Sprintf("artist-%d", i), walletAda))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, storedTournaments(t, svc).Tournaments[0].Entries, n)
}

func TestEntriesHideWallets(t *testing.T) {
	svc, _ := newTournamentService(t)
	tour := createTournament(t, svc, 24, "")
	enter(t, svc, "Ada", walletAda)
	enter(t, svc, "Grace", walletGrace)

	res, err := svc.Entries(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, res.TournamentID)
	assert.Equal(t, tour.ID, *res.TournamentID)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "Ada", res.Entries[0].Author)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), walletAda)
	assert.NotContains(t, string(raw), walletGrace)
	assert.NotContains(t, string(raw), "wallet")
}

func TestEntriesResolution(t *testing.T) {
	svc, _ := newTournamentService(t)

	res, err := svc.Entries(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, res.TournamentID)
	assert.Empty(t, res.Entries)
	assert.NotEmpty(t, res.Message)

	_, err = svc.Entries(context.Background(), "missing")
	requireKind(t, err, KindNotFound)

	old := createTournament(t, svc, 24, "")
	enter(t, svc, "Ada", walletAda)
	createTournament(t, svc, 24, "")

	res, err = svc.Entries(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
	assert.Equal(t, string(models.TournamentStatusEnded), res.Status)
}

func TestRateRequiresParticipation(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")
	adaEntry := enter(t, svc, "Ada", walletAda)
	enter(t, svc, "Grace", walletGrace)

	_, err := svc.Rate(context.Background(), RateRequest{
		RaterName:   "Mallory",
		RaterWallet: walletLinus,
		Ratings:     []RatingInput{{EntryID: adaEntry, Score: scorePtr(5)}},
	})
	requireKind(t, err, KindForbidden)
	assert.Empty(t, storedTournaments(t, svc).Tournaments[0].Ratings)

	res, err := svc.Rate(context.Background(), RateRequest{
		RaterName:   "grace",
		RaterWallet: walletGrace,
		Ratings:     []RatingInput{{EntryID: adaEntry, Score: scorePtr(4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RatedEntries)

	stored := storedTournaments(t, svc).Tournaments[0]
	require.Contains(t, stored.Ratings, "grace")
	assert.Equal(t, 4.0, stored.Ratings["grace"].Scores[adaEntry])
}

func TestRateValidation(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")
	adaEntry := enter(t, svc, "Ada", walletAda)

	rate := func(ratings []RatingInput) RateRequest {
		return RateRequest{RaterName: "Ada", RaterWallet: walletAda, Ratings: ratings}
	}
	tests := []struct {
		name string
		req  RateRequest
	}{
		{"missing ratings", rate(nil)},
		{"missing rater", RateRequest{RaterWallet: walletAda, Ratings: []RatingInput{}}},
		{"invalid wallet", RateRequest{RaterName: "Ada", RaterWallet: "0x12", Ratings: []RatingInput{}}},
		{"score below range", rate([]RatingInput{{EntryID: adaEntry, Score: scorePtr(0)}})},
		{"score above range", rate([]RatingInput{{EntryID: adaEntry, Score: scorePtr(5.5)}})},
		{"missing score", rate([]RatingInput{{EntryID: adaEntry}})},
		{"missing entry id", rate([]RatingInput{{Score: scorePtr(3)}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Rate(context.Background(), tt.req)
			requireKind(t, err, KindValidation)
		})
	}

	_, err := svc.Rate(context.Background(), rate([]RatingInput{
		{EntryID: adaEntry, Score: scorePtr(3)},
		{EntryID: "ghost-entry", Score: scorePtr(3)},
	}))
	requireKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "ghost-entry")
	assert.Empty(t, storedTournaments(t, svc).Tournaments[0].Ratings)
}

func TestRateAcceptsEmptySheet(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")
	enter(t, svc, "Ada", walletAda)

	res, err := svc.Rate(context.Background(), RateRequest{RaterName: "Ada", RaterWallet: walletAda, Ratings: []RatingInput{}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.RatedEntries)

	results, err := svc.Results(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, results.TotalRaters)
	assert.True(t, results.VotingComplete)
}

func TestRateReplacesEarlierSheet(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")
	adaEntry := enter(t, svc, "Ada", walletAda)
	graceEntry := enter(t, svc, "Grace", walletGrace)

	_, err := svc.Rate(context.Background(), RateRequest{
		RaterName:   "Ada",
		RaterWallet: walletAda,
		Ratings: []RatingInput{
			{EntryID: graceEntry, Score: scorePtr(5)},
			{EntryID: adaEntry, Score: scorePtr(3)},
		},
	})
	require.NoError(t, err)
	_, err = svc.Rate(context.Background(), RateRequest{
		RaterName:   "Ada",
		RaterWallet: walletAda,
		Ratings:     []RatingInput{{EntryID: graceEntry, Score: scorePtr(1)}},
	})
	require.NoError(t, err)

	results, err := svc.Results(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, results.TotalRaters)
	require.Len(t, results.Rankings, 2)

	byEntry := map[string]models.RankedEntry{}
	for _, r := range results.Rankings {
		byEntry[r.EntryID] = r
	}
	assert.Equal(t, 1.0, byEntry[graceEntry].AverageScore)
	assert.Equal(t, 1, byEntry[graceEntry].RatingCount)
	assert.Equal(t, 0.0, byEntry[adaEntry].AverageScore)
	assert.Equal(t, 0, byEntry[adaEntry].RatingCount)
}

// three entries; Linus averages 13/3, Ada and Grace tie on 3
func scoredTournament(t *testing.T) (*TournamentService, map[string]string) {
	t.Helper()
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")
	ids := map[string]string{
		"Ada":   enter(t, svc, "Ada", walletAda),
		"Grace": enter(t, svc, "Grace", walletGrace),
		"Linus": enter(t, svc, "Linus", walletLinus),
	}

	sheets := []RateRequest{
		{RaterName: "Ada", RaterWallet: walletAda, Ratings: []RatingInput{
			{EntryID: ids["Linus"], Score: scorePtr(5)},
			{EntryID: ids["Grace"], Score: scorePtr(3)},
		}},
		{RaterName: "Grace", RaterWallet: walletGrace, Ratings: []RatingInput{
			{EntryID: ids["Linus"], Score: scorePtr(4)},
			{EntryID: ids["Ada"], Score: scorePtr(3)},
		}},
	}
	for _, s := range sheets {
		_, err := svc.Rate(context.Background(), s)
		require.NoError(t, err)
	}
	return svc, ids
}

func TestResultsRankingAndRounding(t *testing.T) {
	svc, ids := scoredTournament(t)

	results, err := svc.Results(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, results.TotalEntries)
	assert.Equal(t, 2, results.TotalRaters)
	assert.False(t, results.VotingComplete)

	_, err = svc.Rate(context.Background(), RateRequest{
		RaterName:   "Linus",
		RaterWallet: walletLinus,
		Ratings:     []RatingInput{{EntryID: ids["Linus"], Score: scorePtr(4)}},
	})
	require.NoError(t, err)

	results, err = svc.Results(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, results.VotingComplete)
	require.Len(t, results.Rankings, 3)

	top := results.Rankings[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, ids["Linus"], top.EntryID)
	assert.Equal(t, 4.33, top.AverageScore)
	assert.Equal(t, 3, top.RatingCount)

	// tie keeps submission order
	assert.Equal(t, ids["Ada"], results.Rankings[1].EntryID)
	assert.Equal(t, 2, results.Rankings[1].Rank)
	assert.Equal(t, ids["Grace"], results.Rankings[2].EntryID)
	assert.Equal(t, 3, results.Rankings[2].Rank)
	assert.Nil(t, results.Winner)

	raw, err := json.Marshal(results)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), walletLinus)
}

func TestResultsResolution(t *testing.T) {
	svc, _ := newTournamentService(t)
	_, err := svc.Results(context.Background(), "")
	requireKind(t, err, KindNotFound)
	_, err = svc.Results(context.Background(), "missing")
	requireKind(t, err, KindNotFound)
}

func TestEndDeclaresWinner(t *testing.T) {
	svc, ids := scoredTournament(t)
	_, err := svc.Rate(context.Background(), RateRequest{
		RaterName:   "Linus",
		RaterWallet: walletLinus,
		Ratings:     []RatingInput{{EntryID: ids["Linus"], Score: scorePtr(4)}},
	})
	require.NoError(t, err)

	res, err := svc.End(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Prize)
	require.NotNil(t, res.Winner)
	assert.Equal(t, ids["Linus"], res.Winner.EntryID)
	assert.Equal(t, "Linus", res.Winner.Author)
	assert.Equal(t, walletLinus, res.Winner.Wallet)
	assert.InDelta(t, 13.0/3.0, res.Winner.AverageScore, 1e-9)

	coll := storedTournaments(t, svc)
	assert.Nil(t, coll.Current)
	stored := coll.Find(res.TournamentID)
	require.NotNil(t, stored)
	assert.Equal(t, models.TournamentStatusCompleted, stored.Status)
	assert.NotNil(t, stored.EndedAt)
	require.NotNil(t, stored.Winner)

	results, err := svc.Results(context.Background(), res.TournamentID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusCompleted, results.Status)
	require.NotNil(t, results.Winner)
	assert.Equal(t, ids["Linus"], results.Winner.EntryID)

	_, err = svc.End(context.Background(), res.TournamentID)
	requireKind(t, err, KindConflict)

	_, err = svc.End(context.Background(), "")
	requireKind(t, err, KindNotFound)

	_, err = svc.Rate(context.Background(), RateRequest{RaterName: "Ada", RaterWallet: walletAda, Ratings: []RatingInput{}})
	requireKind(t, err, KindConflict)
}

func TestEndWithoutEntries(t *testing.T) {
	svc, _ := newTournamentService(t)
	createTournament(t, svc, 24, "")

	res, err := svc.End(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, res.Winner)
	assert.Equal(t, 1000, res.Prize)

	coll := storedTournaments(t, svc)
	assert.Nil(t, coll.Current)
	stored := coll.Find(res.TournamentID)
	require.NotNil(t, stored)
	assert.Equal(t, models.TournamentStatusCompleted, stored.Status)
	assert.NotNil(t, stored.EndedAt)
	assert.Nil(t, stored.Winner)
}

func TestEndSupersededTournamentClearsCurrent(t *testing.T) {
	svc, _ := newTournamentService(t)
	old := createTournament(t, svc, 24, "")
	createTournament(t, svc, 24, "")

	_, err := svc.End(context.Background(), old.ID)
	require.NoError(t, err)

	coll := storedTournaments(t, svc)
	assert.Nil(t, coll.Current)
	assert.Equal(t, models.TournamentStatusCompleted, coll.Find(old.ID).Status)
}

func TestListAndSweep(t *testing.T) {
	svc, clock := newTournamentService(t)
	first := createTournament(t, svc, 1, "")
	second := createTournament(t, svc, 1, "")
	enter(t, svc, "Ada", walletAda)

	moved, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	clock.Advance(90 * time.Minute)
	moved, err = svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	moved, err = svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Tournaments, 2)
	require.NotNil(t, list.Current)
	assert.Equal(t, second.ID, *list.Current)

	assert.Equal(t, first.ID, list.Tournaments[0].ID)
	assert.Equal(t, models.TournamentStatusEnded, list.Tournaments[0].Status)
	assert.Equal(t, models.TournamentStatusVoting, list.Tournaments[1].Status)
	assert.Equal(t, 1, list.Tournaments[1].EntryCount)
}

func TestRankEntriesIgnoresUnknownEntries(t *testing.T) {
	tour := &models.Tournament{
		Entries: []models.Entry{{ID: "a"}, {ID: "b"}},
		Ratings: map[string]models.RatingRecord{
			"x": {Scores: map[string]float64{"a": 2, "gone": 5}},
			"y": {Scores: map[string]float64{"b": 3}},
		},
	}
	ranked := RankEntries(tour)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].EntryID)
	assert.Equal(t, 3.0, ranked[0].AverageScore)
	assert.Equal(t, "a", ranked[1].EntryID)
	assert.Equal(t, 1, ranked[1].RatingCount)
}

func TestNoTournamentEntriesVersusResults(t *testing.T) {
	svc, _ := newTournamentService(t)
	ctx := context.Background()

	entries, err := svc.Entries(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "No active tournament", entries.Message)
	assert.Nil(t, entries.TournamentID)
	assert.Empty(t, entries.Entries)

	_, err = svc.Results(ctx, "")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "No active tournament")
}
