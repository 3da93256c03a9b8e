package services

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"crucible-api/models"
	"crucible-api/store"
)

type SubmissionService struct {
	Docs *store.Documents
	Now  func() time.Time
}

func NewSubmissionService(docs *store.Documents) *SubmissionService {
	return &SubmissionService{Docs: docs, Now: time.Now}
}

// AuthorInput is the author block of an incoming piece
type AuthorInput struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Wallet string `json:"wallet"`
}

// SubmitRequest is the body of POST /submit
type SubmitRequest struct {
	Title       string      `json:"title"`
	Discipline  string      `json:"discipline"`
	Technique   string      `json:"technique"`
	Content     string      `json:"content"`
	Explanation string      `json:"explanation"`
	Author      AuthorInput `json:"author"`
}

const defaultGalleryLimit = 50

func (s *SubmissionService) now() time.Time {
	return s.Now().UTC()
}

// Submit validates a piece and queues it for moderation
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*models.Submission, error) {
	if blankTitle(req.Title) || req.Discipline == "" || req.Content == "" || req.Author.Name == "" {
		return nil, validationError("Missing required fields: title, discipline, content, author.name")
	}
	discipline, ok := models.NormalizeDiscipline(req.Discipline)
	if !ok {
		return nil, invalidDisciplineError()
	}
	if req.Author.Wallet != "" && !ValidWallet(req.Author.Wallet) {
		return nil, validationError("Invalid wallet address. Must be a 0x-prefixed 40 character hex address")
	}

	sub := models.Submission{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Discipline:  discipline,
		Technique:   stringOr(&req.Technique, models.DefaultTechnique),
		Content:     req.Content,
		Explanation: req.Explanation,
		Author: models.Author{
			Name:   req.Author.Name,
			URL:    optionalString(&req.Author.URL),
			Wallet: optionalString(&req.Author.Wallet),
		},
		Status:      models.SubmissionStatusPending,
		SubmittedAt: s.now(),
	}

	var subs []models.Submission
	err := s.Docs.Update(ctx, store.DocSubmissions, &subs, func() error {
		subs = append(subs, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SUBMIT] New submission: %q by %s (%s)", sub.Title, sub.Author.Name, sub.ID)
	return &sub, nil
}

// Get finds a submission in the pending queue first, then in the gallery
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	var subs []models.Submission
	if err := s.Docs.Load(ctx, store.DocSubmissions, &subs); err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}

	var gallery []models.Submission
	if err := s.Docs.Load(ctx, store.DocGallery, &gallery); err != nil {
		return nil, err
	}
	for i := range gallery {
		if gallery[i].ID == id {
			return &gallery[i], nil
		}
	}
	return nil, notFoundError("Submission not found")
}

// ListPending returns submissions awaiting review
func (s *SubmissionService) ListPending(ctx context.Context) ([]models.Submission, error) {
	var subs []models.Submission
	if err := s.Docs.Load(ctx, store.DocSubmissions, &subs); err != nil {
		return nil, err
	}
	pending := make([]models.Submission, 0, len(subs))
	for _, sub := range subs {
		if sub.Status == models.SubmissionStatusPending {
			pending = append(pending, sub)
		}
	}
	return pending, nil
}

// Approve moves a submission into the gallery. The submissions document is
// written before the gallery; a failed gallery write is not rolled back.
func (s *SubmissionService) Approve(ctx context.Context, id string) (*models.Submission, error) {
	var subs, gallery []models.Submission
	var approved models.Submission

	err := s.Docs.UpdatePair(ctx, store.DocSubmissions, &subs, store.DocGallery, &gallery, func() error {
		idx := indexOfSubmission(subs, id)
		if idx == -1 {
			return notFoundError("Submission not found")
		}
		if subs[idx].Status != models.SubmissionStatusPending {
			return conflictError("Submission already reviewed (%s)", subs[idx].Status)
		}
		reviewed := s.now()
		approved = subs[idx]
		approved.Status = models.SubmissionStatusApproved
		approved.ReviewedAt = &reviewed

		gallery = append(gallery, approved)
		subs = append(subs[:idx], subs[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[APPROVE] Approved: %q by %s", approved.Title, approved.Author.Name)
	return &approved, nil
}

// Reject marks a submission rejected; it stays in the submissions document
func (s *SubmissionService) Reject(ctx context.Context, id, reason string) (*models.Submission, error) {
	var subs []models.Submission
	var rejected models.Submission

	err := s.Docs.Update(ctx, store.DocSubmissions, &subs, func() error {
		idx := indexOfSubmission(subs, id)
		if idx == -1 {
			return notFoundError("Submission not found")
		}
		if subs[idx].Status != models.SubmissionStatusPending {
			return conflictError("Submission already reviewed (%s)", subs[idx].Status)
		}
		reviewed := s.now()
		sub := &subs[idx]
		sub.Status = models.SubmissionStatusRejected
		sub.ReviewedAt = &reviewed
		sub.RejectionReason = stringOr(&reason, models.DefaultRejectionReason)
		rejected = *sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[REJECT] Rejected: %q by %s", rejected.Title, rejected.Author.Name)
	return &rejected, nil
}

// ParseGalleryLimit applies the default for absent, unparsable or non-positive
// limits. No upper bound is applied.
func ParseGalleryLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return defaultGalleryLimit
	}
	return n
}

// Gallery lists approved pieces, newest approval first
func (s *SubmissionService) Gallery(ctx context.Context, discipline string, limit int) ([]models.GalleryPiece, error) {
	approved, err := s.approved(ctx)
	if err != nil {
		return nil, err
	}

	if discipline != "" {
		want := strings.ToLower(discipline)
		filtered := approved[:0]
		for _, g := range approved {
			if g.Discipline == want {
				filtered = append(filtered, g)
			}
		}
		approved = filtered
	}

	sort.SliceStable(approved, func(i, j int) bool {
		return reviewedAt(approved[i]).After(reviewedAt(approved[j]))
	})

	if limit <= 0 {
		limit = defaultGalleryLimit
	}
	if len(approved) > limit {
		approved = approved[:limit]
	}

	pieces := make([]models.GalleryPiece, 0, len(approved))
	for _, g := range approved {
		pieces = append(pieces, g.ToGalleryPiece())
	}
	return pieces, nil
}

// GalleryPiece returns one approved piece in full
func (s *SubmissionService) GalleryPiece(ctx context.Context, id string) (*models.Submission, error) {
	approved, err := s.approved(ctx)
	if err != nil {
		return nil, err
	}
	for i := range approved {
		if approved[i].ID == id {
			return &approved[i], nil
		}
	}
	return nil, notFoundError("Piece not found")
}

// Stats aggregates the gallery and the pending queue
func (s *SubmissionService) Stats(ctx context.Context) (*models.GalleryStats, error) {
	approved, err := s.approved(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.GalleryStats{
		TotalApproved: len(approved),
		Pending:       len(pending),
		ByDiscipline:  make(map[string]int),
	}
	artists := make(map[string]struct{})
	wallets := make(map[string]struct{})
	for _, g := range approved {
		stats.ByDiscipline[g.Discipline]++
		artists[g.Author.Name] = struct{}{}
		if g.Author.Wallet != nil && *g.Author.Wallet != "" {
			stats.WithWallet++
			wallets[normalizeWallet(*g.Author.Wallet)] = struct{}{}
		}
	}
	stats.UniqueArtists = len(artists)
	stats.UniqueWallets = len(wallets)
	return stats, nil
}

func (s *SubmissionService) approved(ctx context.Context) ([]models.Submission, error) {
	return loadApproved(ctx, s.Docs)
}

func loadApproved(ctx context.Context, docs *store.Documents) ([]models.Submission, error) {
	var gallery []models.Submission
	if err := docs.Load(ctx, store.DocGallery, &gallery); err != nil {
		return nil, err
	}
	approved := make([]models.Submission, 0, len(gallery))
	for _, g := range gallery {
		if g.Status == models.SubmissionStatusApproved {
			approved = append(approved, g)
		}
	}
	return approved, nil
}

func indexOfSubmission(subs []models.Submission, id string) int {
	for i := range subs {
		if subs[i].ID == id {
			return i
		}
	}
	return -1
}

func reviewedAt(s models.Submission) time.Time {
	if s.ReviewedAt == nil {
		return time.Time{}
	}
	return *s.ReviewedAt
}
