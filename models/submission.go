// models/submission.go
package models

import (
	"time"
)

// SubmissionStatus is the moderation state of a gallery submission
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

const (
	DefaultTechnique       = "unspecified"
	DefaultRejectionReason = "No reason provided"
)

// Author identifies who made a piece. URL and Wallet serialize as null when absent.
type Author struct {
	Name   string  `json:"name"`
	URL    *string `json:"url"`
	Wallet *string `json:"wallet"`
}

// Submission is a piece waiting for (or past) moderation.
// Pending and rejected submissions live in the submissions document,
// approved ones are moved into the gallery document.
type Submission struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Discipline      string           `json:"discipline"`
	Technique       string           `json:"technique"`
	Content         string           `json:"content"`
	Explanation     string           `json:"explanation"`
	Author          Author           `json:"author"`
	Status          SubmissionStatus `json:"status"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

// GalleryPiece is the public projection of an approved submission
type GalleryPiece struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Discipline  string     `json:"discipline"`
	Technique   string     `json:"technique"`
	Content     string     `json:"content"`
	Explanation string     `json:"explanation"`
	Author      Author     `json:"author"`
	ApprovedAt  *time.Time `json:"approved_at"`
}

// ToGalleryPiece projects an approved submission for public listing.
func (s Submission) ToGalleryPiece() GalleryPiece {
	return GalleryPiece{
		ID:          s.ID,
		Title:       s.Title,
		Discipline:  s.Discipline,
		Technique:   s.Technique,
		Content:     s.Content,
		Explanation: s.Explanation,
		Author:      s.Author,
		ApprovedAt:  s.ReviewedAt,
	}
}

// GalleryStats aggregates the public gallery
type GalleryStats struct {
	TotalApproved int            `json:"total_approved"`
	Pending       int            `json:"pending"`
	ByDiscipline  map[string]int `json:"by_discipline"`
	UniqueArtists int            `json:"unique_artists"`
	WithWallet    int            `json:"with_wallet"`
	UniqueWallets int            `json:"unique_wallets"`
}

// RewardArtist is an artist with at least one approved piece and a payout wallet
type RewardArtist struct {
	Name        string   `json:"name"`
	Wallet      string   `json:"wallet"`
	PieceCount  int      `json:"piece_count"`
	Disciplines []string `json:"disciplines"`
}
