// Package interfaces documents the core abstractions used throughout the tracker.
//
// # Interface Categories
//
// ## Storage Interfaces
//
// Defined by the repository layer (internal/repository/stores.go) and
// implemented by the gorm sub-packages of internal/database:
//
//   - BookStore, ReviewStore, InsightStore, MotivationStore: row access
//   - BookChecker: parent existence checks, implemented by repository.Books
//
// ## Consumer Interfaces
//
// Each consumer declares only the repository methods it calls:
//
//   - http.BookStore, http.ReviewStore, ... (internal/http/stores.go)
//   - screen.BookSource, screen.BookStore, screen.InsightStore,
//     screen.ReviewStore (internal/screen)
//   - tasks.DraftPurger, tasks.BookDraftDeleter (internal/tasks)
//
// ## Background Work Interfaces
//
//   - scheduler.Enqueuer: hands scheduled work to the task queue
//   - http.TaskQueue: enqueue and status lookup for the tasks API
//
// ## Export and Metadata Interfaces
//
//   - exporters.BookReader, ReviewReader, InsightReader, MotivationReader:
//     what the markdown Collector reads
//   - metadata.Provider: ISBN lookup and title search (metadata.Client)
//   - metadata.BookStore: the book repository methods enrichment writes through
//   - http.NoteSource, http.MetadataLookup, http.BookEnricher: their HTTP consumers
//
// # Adding a New Tracked Entity
//
//  1. Add the gorm row to internal/entities and migrate it in
//     database.Migrate.
//
//  2. Create a sub-package under internal/database/ with
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the store interface in internal/repository/stores.go and wrap
//     it with a repository type that validates, translates errors through
//     the boundary and publishes a live topic after each write.
//
//  4. Add compile-time checks here.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
