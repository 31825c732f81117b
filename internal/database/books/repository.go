// Package books provides database operations for book rows.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByISBN(ctx, "9784774197632")
package books

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/readingtracker/internal/entities"
)

// Order selects the sort of a List query.
type Order int

const (
	// OrderRecent sorts by creation time, newest first.
	OrderRecent Order = iota
	// OrderRecentlyFinished keeps finished books only, latest finish first.
	OrderRecentlyFinished
	// OrderTopRated keeps rated books only, highest rating first.
	OrderTopRated
)

// Query filters a List call. Zero values mean no filter.
type Query struct {
	Status string
	Search string // substring of title or author
	Order  Order
	Limit  int
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Update replaces every column except created_at. A missing row yields
// gorm.ErrRecordNotFound rather than an insert.
func (r *Repository) Update(ctx context.Context, book *entities.Book) error {
	res := r.db.WithContext(ctx).Model(book).Select("*").Omit("created_at").Updates(book)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the book together with its reviews, insights and
// motivations in one transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&entities.Review{}, &entities.Insight{}, &entities.ReadingMotivation{}} {
			if err := tx.Where("book_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&entities.Book{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN looks a book up by its normalized ISBN.
func (r *Repository) GetByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) List(ctx context.Context, q Query) ([]entities.Book, error) {
	tx := r.db.WithContext(ctx).Model(&entities.Book{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}
	switch q.Order {
	case OrderRecentlyFinished:
		tx = tx.Where("finished_at IS NOT NULL").Order("finished_at DESC")
	case OrderTopRated:
		tx = tx.Where("rating IS NOT NULL").Order("rating DESC")
	default:
		tx = tx.Order("created_at DESC")
	}
	tx = tx.Order("id DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var books []entities.Book
	err := tx.Find(&books).Error
	return books, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of books per status. Statuses with no
// books are absent from the map.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []entities.StatusCount
	err := r.db.WithContext(ctx).Model(&entities.Book{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
