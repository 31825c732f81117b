// Package reviews provides database operations for reviews and drafts.
package reviews

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/readingtracker/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).Omit("Book").Create(review).Error
}

// Update replaces every column except created_at.
func (r *Repository) Update(ctx context.Context, review *entities.Review) error {
	res := r.db.WithContext(ctx).Model(review).Select("*").Omit("created_at", "Book").Updates(review)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entities.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// LatestForBook returns the most recently created review of a book, draft or not.
func (r *Repository) LatestForBook(ctx context.Context, bookID uint) (*entities.Review, error) {
	return r.first(ctx, r.db.Where("book_id = ?", bookID).Order("created_at DESC").Order("id DESC"))
}

func (r *Repository) LatestPublishedForBook(ctx context.Context, bookID uint) (*entities.Review, error) {
	return r.first(ctx, r.db.Where("book_id = ? AND is_draft = ?", bookID, false).Order("created_at DESC").Order("id DESC"))
}

func (r *Repository) DraftForBook(ctx context.Context, bookID uint) (*entities.Review, error) {
	return r.first(ctx, r.db.Where("book_id = ? AND is_draft = ?", bookID, true).Order("updated_at DESC").Order("id DESC"))
}

func (r *Repository) first(ctx context.Context, q *gorm.DB) (*entities.Review, error) {
	var review entities.Review
	if err := q.WithContext(ctx).Limit(1).Find(&review).Error; err != nil {
		return nil, err
	}
	if review.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &review, nil
}

func (r *Repository) List(ctx context.Context) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&reviews).Error
	return reviews, err
}

func (r *Repository) Drafts(ctx context.Context) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.WithContext(ctx).Where("is_draft = ?", true).Order("updated_at DESC").Order("id DESC").Find(&reviews).Error
	return reviews, err
}

func (r *Repository) DeleteDraftsForBook(ctx context.Context, bookID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("book_id = ? AND is_draft = ?", bookID, true).Delete(&entities.Review{})
	return res.RowsAffected, res.Error
}

// DeleteDraftsOlderThan removes drafts untouched since cutoff.
func (r *Repository) DeleteDraftsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("is_draft = ? AND updated_at < ?", true, cutoff).Delete(&entities.Review{})
	return res.RowsAffected, res.Error
}

func (r *Repository) CountForBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Review{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Review{}).Count(&count).Error
	return count, err
}
