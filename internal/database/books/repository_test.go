package books

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/readingtracker/internal/database"
	"github.com/mrlokans/readingtracker/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB), db.DB
}

func createBook(t *testing.T, repo *Repository, book entities.Book) *entities.Book {
	t.Helper()
	if book.Status == "" {
		book.Status = "unread"
	}
	require.NoError(t, repo.Create(context.Background(), &book))
	return &book
}

func strPtr(s string) *string { return &s }

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	book := createBook(t, repo, entities.Book{Title: "Dune", Author: "Herbert", ISBN: strPtr("9784774197632")})
	assert.NotZero(t, book.ID)

	byID, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", byID.Title)

	byISBN, err := repo.GetByISBN(ctx, "9784774197632")
	require.NoError(t, err)
	assert.Equal(t, book.ID, byISBN.ID)

	_, err = repo.GetByISBN(ctx, "0596520689")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.Exists(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	book := createBook(t, repo, entities.Book{Title: "Dune", ISBN: strPtr("9784774197632")})
	created := book.CreatedAt

	book.Title = "Dune Messiah"
	book.ISBN = nil
	require.NoError(t, repo.Update(ctx, book))

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Nil(t, got.ISBN, "full-row update clears absent fields")
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)

	missing := &entities.Book{ID: 999, Title: "ghost", Status: "unread"}
	assert.ErrorIs(t, repo.Update(ctx, missing), gorm.ErrRecordNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "update must not insert")
}

func TestRepository_DeleteFansOut(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	book := createBook(t, repo, entities.Book{Title: "Dune"})
	other := createBook(t, repo, entities.Book{Title: "Emma"})
	require.NoError(t, db.Create(&entities.Review{BookID: book.ID, Content: "x"}).Error)
	require.NoError(t, db.Create(&entities.Insight{BookID: book.ID, Content: "x", Importance: "low"}).Error)
	require.NoError(t, db.Create(&entities.Insight{BookID: other.ID, Content: "y", Importance: "low"}).Error)

	require.NoError(t, repo.Delete(ctx, book.ID))

	var reviews, insights int64
	db.Model(&entities.Review{}).Count(&reviews)
	db.Model(&entities.Insight{}).Count(&insights)
	assert.Zero(t, reviews)
	assert.Equal(t, int64(1), insights)

	assert.ErrorIs(t, repo.Delete(ctx, book.ID), gorm.ErrRecordNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finished := base.Add(48 * time.Hour)
	rating := 4.5
	low := 2.0

	createBook(t, repo, entities.Book{Title: "Old", Author: "Austen", CreatedAt: base})
	createBook(t, repo, entities.Book{Title: "Mid", Status: "reading", CreatedAt: base.Add(time.Hour), Rating: &low})
	createBook(t, repo, entities.Book{Title: "New", Status: "finished", CreatedAt: base.Add(2 * time.Hour), FinishedAt: &finished, Rating: &rating})

	all, err := repo.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"New", "Mid", "Old"}, titles(all))

	reading, err := repo.List(ctx, Query{Status: "reading"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid"}, titles(reading))

	search, err := repo.List(ctx, Query{Search: "aust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, titles(search))

	recent, err := repo.List(ctx, Query{Order: OrderRecentlyFinished, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, titles(recent))

	top, err := repo.List(ctx, Query{Order: OrderTopRated, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, titles(top))
}

func TestRepository_CountByStatus(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	createBook(t, repo, entities.Book{Title: "A"})
	createBook(t, repo, entities.Book{Title: "B"})
	createBook(t, repo, entities.Book{Title: "C", Status: "finished"})

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"unread": 2, "finished": 1}, counts)
}

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
