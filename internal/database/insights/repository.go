// Package insights provides database operations for insights.
//
// Lists are ordered by importance (high first), then newest first.
package insights

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/readingtracker/internal/entities"
)

const importanceOrder = "CASE importance WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, insight *entities.Insight) error {
	return r.db.WithContext(ctx).Omit("Book").Create(insight).Error
}

func (r *Repository) Update(ctx context.Context, insight *entities.Insight) error {
	res := r.db.WithContext(ctx).Model(insight).Select("*").Omit("created_at", "Book").Updates(insight)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entities.Insight{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Insight, error) {
	var insight entities.Insight
	if err := r.db.WithContext(ctx).First(&insight, id).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

// ListForBook returns a book's insights, optionally limited to one importance.
func (r *Repository) ListForBook(ctx context.Context, bookID uint, importance string) ([]entities.Insight, error) {
	tx := r.db.WithContext(ctx).Where("book_id = ?", bookID)
	if importance != "" {
		tx = tx.Where("importance = ?", importance)
	}
	return r.find(tx)
}

// ListByTag matches tag as a substring of the stored tag list.
func (r *Repository) ListByTag(ctx context.Context, tag string) ([]entities.Insight, error) {
	return r.find(r.db.WithContext(ctx).Where("tags LIKE ?", "%"+tag+"%"))
}

func (r *Repository) ListByImportance(ctx context.Context, importance string) ([]entities.Insight, error) {
	return r.find(r.db.WithContext(ctx).Where("importance = ?", importance))
}

func (r *Repository) List(ctx context.Context) ([]entities.Insight, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *Repository) find(tx *gorm.DB) ([]entities.Insight, error) {
	var insights []entities.Insight
	err := tx.Order(importanceOrder).Order("created_at DESC").Order("id DESC").Find(&insights).Error
	return insights, err
}

func (r *Repository) CountForBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Insight{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// DistinctTagStrings returns every distinct non-empty stored tag list.
func (r *Repository) DistinctTagStrings(ctx context.Context) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).Model(&entities.Insight{}).
		Where("tags IS NOT NULL AND tags != ''").
		Distinct().Pluck("tags", &tags).Error
	return tags, err
}
