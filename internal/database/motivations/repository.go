// Package motivations provides database operations for reading motivations.
package motivations

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/readingtracker/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, m *entities.ReadingMotivation) error {
	return r.db.WithContext(ctx).Omit("Book").Create(m).Error
}

func (r *Repository) Update(ctx context.Context, m *entities.ReadingMotivation) error {
	res := r.db.WithContext(ctx).Model(m).Select("*").Omit("created_at", "Book").Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entities.ReadingMotivation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.ReadingMotivation, error) {
	var m entities.ReadingMotivation
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) LatestForBook(ctx context.Context, bookID uint) (*entities.ReadingMotivation, error) {
	var m entities.ReadingMotivation
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).
		Order("created_at DESC").Order("id DESC").Limit(1).Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *Repository) List(ctx context.Context) ([]entities.ReadingMotivation, error) {
	var ms []entities.ReadingMotivation
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&ms).Error
	return ms, err
}

func (r *Repository) ListByType(ctx context.Context, motivationType string) ([]entities.ReadingMotivation, error) {
	var ms []entities.ReadingMotivation
	err := r.db.WithContext(ctx).Where("motivation_type = ?", motivationType).
		Order("created_at DESC").Order("id DESC").Find(&ms).Error
	return ms, err
}

func (r *Repository) DeleteForBook(ctx context.Context, bookID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&entities.ReadingMotivation{})
	return res.RowsAffected, res.Error
}

func (r *Repository) CountForBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.ReadingMotivation{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

func (r *Repository) CountByType(ctx context.Context, motivationType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.ReadingMotivation{}).Where("motivation_type = ?", motivationType).Count(&count).Error
	return count, err
}

// TypeStatistics counts motivations per type, most common first.
func (r *Repository) TypeStatistics(ctx context.Context) ([]entities.MotivationTypeCount, error) {
	var rows []entities.MotivationTypeCount
	err := r.db.WithContext(ctx).Model(&entities.ReadingMotivation{}).
		Select("motivation_type, COUNT(*) AS count").
		Group("motivation_type").
		Order("count DESC").Order("motivation_type ASC").
		Scan(&rows).Error
	return rows, err
}
