// store/gorm.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one JSON document stored as a row.
// Table name: documents
type Document struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)" json:"name"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// GormBackend keeps documents in a SQL table
type GormBackend struct {
	DB *gorm.DB
}

// OpenPostgres connects to DATABASE_URL and migrates the documents table
func OpenPostgres(dsn string) (*GormBackend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormBackend(db)
}

func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormBackend{DB: db}, nil
}

func (g *GormBackend) Get(ctx context.Context, name string) ([]byte, error) {
	var doc Document
	if err := g.DB.WithContext(ctx).First(&doc, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Body), nil
}

func (g *GormBackend) Put(ctx context.Context, name string, data []byte) error {
	doc := Document{Name: name, Body: string(data), UpdatedAt: time.Now().UTC()}
	return g.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		},
	).Create(&doc).Error
}
