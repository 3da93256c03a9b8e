// services/reward_service.go
package services

import (
	"context"
	"sort"

	"crucible-api/models"
	"crucible-api/store"
)

type RewardService struct {
	Docs *store.Documents
}

func NewRewardService(docs *store.Documents) *RewardService {
	return &RewardService{Docs: docs}
}

// --- Admin Handlers ---

// EligibleArtists lists artists with approved pieces and a payout wallet.
// Pieces are grouped by wallet (any casing of the same address is one artist);
// the name reported is the one on that wallet's first approved piece.
func (s *RewardService) EligibleArtists(ctx context.Context) ([]models.RewardArtist, error) {
	approved, err := loadApproved(ctx, s.Docs)
	if err != nil {
		return nil, err
	}

	byWallet := make(map[string]*models.RewardArtist)
	seenDiscipline := make(map[string]map[string]bool)
	var order []string

	for _, g := range approved {
		if g.Author.Wallet == nil || *g.Author.Wallet == "" {
			continue
		}
		key := normalizeWallet(*g.Author.Wallet)
		artist, ok := byWallet[key]
		if !ok {
			artist = &models.RewardArtist{
				Name:        g.Author.Name,
				Wallet:      key,
				Disciplines: []string{},
			}
			byWallet[key] = artist
			seenDiscipline[key] = make(map[string]bool)
			order = append(order, key)
		}
		artist.PieceCount++
		if !seenDiscipline[key][g.Discipline] {
			seenDiscipline[key][g.Discipline] = true
			artist.Disciplines = append(artist.Disciplines, g.Discipline)
		}
	}

	artists := make([]models.RewardArtist, 0, len(order))
	for _, key := range order {
		artists = append(artists, *byWallet[key])
	}
	sort.SliceStable(artists, func(i, j int) bool {
		if artists[i].PieceCount != artists[j].PieceCount {
			return artists[i].PieceCount > artists[j].PieceCount
		}
		return artists[i].Name < artists[j].Name
	})
	return artists, nil
}
