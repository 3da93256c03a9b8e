package services

import (
	"log"
	"math"
	"sort"
	"time"

	"crucible-api/models"
)

// DeriveStatus is the lazy lifecycle rule: an active tournament whose ends_at
// has passed is in voting. Nothing else moves without an explicit action.
func DeriveStatus(t *models.Tournament, now time.Time) models.TournamentStatus {
	if t.Status == models.TournamentStatusActive && now.After(t.EndsAt) {
		return models.TournamentStatusVoting
	}
	return t.Status
}

// advance applies DeriveStatus and reports whether the tournament changed,
// so the caller knows it has to persist.
func advance(t *models.Tournament, now time.Time) bool {
	next := DeriveStatus(t, now)
	if next == t.Status {
		return false
	}
	log.Printf("[TOURNAMENT] %q (%s) %s -> %s, submission period ended at %s",
		t.Title, t.ID, t.Status, next, t.EndsAt.Format(time.RFC3339))
	t.Status = next
	return true
}

// RankEntries aggregates every rater's scores per entry and orders entries by
// mean score, highest first. Ties keep submission order. Scores for entries
// that no longer exist are ignored; an entry nobody rated averages 0.
func RankEntries(t *models.Tournament) []models.RankedEntry {
	index := make(map[string]int, len(t.Entries))
	sums := make([]float64, len(t.Entries))
	counts := make([]int, len(t.Entries))
	for i, e := range t.Entries {
		index[e.ID] = i
	}

	// fixed rater order keeps float sums reproducible
	raters := make([]string, 0, len(t.Ratings))
	for name := range t.Ratings {
		raters = append(raters, name)
	}
	sort.Strings(raters)

	for _, name := range raters {
		for entryID, score := range t.Ratings[name].Scores {
			i, ok := index[entryID]
			if !ok {
				continue
			}
			sums[i] += score
			counts[i]++
		}
	}

	ranked := make([]models.RankedEntry, len(t.Entries))
	for i, e := range t.Entries {
		avg := 0.0
		if counts[i] > 0 {
			avg = sums[i] / float64(counts[i])
		}
		ranked[i] = models.RankedEntry{
			EntryID:      e.ID,
			Title:        e.Title,
			Author:       e.Author.Name,
			Wallet:       e.Author.Wallet,
			AverageScore: avg,
			RatingCount:  counts[i],
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageScore > ranked[j].AverageScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// winnerOf snapshots the top-ranked entry with its unrounded average
func winnerOf(ranked []models.RankedEntry) *models.Winner {
	if len(ranked) == 0 {
		return nil
	}
	top := ranked[0]
	return &models.Winner{
		EntryID:      top.EntryID,
		Title:        top.Title,
		Author:       top.Author,
		Wallet:       top.Wallet,
		AverageScore: top.AverageScore,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
