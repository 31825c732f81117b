// Package database provides the data access layer for the tracker.
//
// # Architecture
//
// The database layer is organized into per-table sub-packages:
//
//	database/
//	├── database.go      # Connection setup, foreign keys, migrations
//	├── books/           # Book rows, lookups by ISBN, status counts
//	├── reviews/         # Reviews and drafts
//	├── insights/        # Insights ordered by importance, tag lookups
//	└── motivations/     # Reading motivations and type statistics
//
// # Using Sub-packages
//
// Each sub-package provides a Repository over the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./reading-tracker.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.GetByISBN(ctx, "9784774197632")
//
// Sub-repositories speak in entities rows and return gorm errors unchanged
// (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey). Translating rows into
// validated domain objects and errors into typed failures is the job of
// internal/repository.
//
// # Referential Integrity
//
// Reviews, insights and motivations reference books with ON DELETE CASCADE,
// and the connection is opened with foreign keys enabled. books.Repository.Delete
// additionally removes the children explicitly inside one transaction so the
// cascade holds on connections opened without the pragma.
package database
