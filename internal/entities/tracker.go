package entities

import "time"

// Book is the stored row for a catalogued book. ISBN is nullable so the
// unique index admits any number of books without one.
type Book struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"size:512;not null;index"`
	Author      string  `gorm:"size:256;index"`
	ISBN        *string `gorm:"column:isbn;size:20;uniqueIndex"`
	Publisher   string  `gorm:"size:256"`
	PublishedAt *time.Time
	Description string `gorm:"type:text"`
	CoverURL    string `gorm:"size:2048"`
	PageCount   *int
	Status      string   `gorm:"size:16;not null;index"`
	Rating      *float64 `gorm:"index"`
	StartedAt   *time.Time
	FinishedAt  *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

// Review, Insight and ReadingMotivation all reference their book with
// ON DELETE CASCADE.

type Review struct {
	ID        uint   `gorm:"primaryKey"`
	BookID    uint   `gorm:"not null;index"`
	Book      *Book  `gorm:"constraint:OnDelete:CASCADE"`
	Content   string `gorm:"type:text;not null"`
	Rating    *float64
	IsDraft   bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`
}

type Insight struct {
	ID         uint   `gorm:"primaryKey"`
	BookID     uint   `gorm:"not null;index"`
	Book       *Book  `gorm:"constraint:OnDelete:CASCADE"`
	Content    string `gorm:"type:text;not null"`
	Importance string `gorm:"size:8;not null;index"`
	Tags       string `gorm:"size:1100"` // comma-joined
	Page       *int
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

type ReadingMotivation struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"not null;index"`
	Book      *Book     `gorm:"constraint:OnDelete:CASCADE"`
	Type      string    `gorm:"column:motivation_type;size:32;not null;index"`
	Details   string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"index"`
}

// MotivationTypeCount is one row of the motivation type breakdown.
type MotivationTypeCount struct {
	Type  string `gorm:"column:motivation_type"`
	Count int64
}

// StatusCount is one row of the per-status book count.
type StatusCount struct {
	Status string
	Count  int64
}
