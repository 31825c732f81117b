// Package repository is the consistency boundary between validated domain
// objects and storage.
//
// Every write runs, in order: field validation, cross-record checks (ISBN
// uniqueness for books, parent-book existence for children), then the
// storage call. Every failure leaving this package is an
// *internal/errors.Error: Validation, DuplicateKey, NotFound or Storage.
// Storage failures, timeouts and panics are all converted to Storage.
//
// Successful writes publish change notices on a live.Hub, which is what the
// Watch accessors listen to:
//
//	books := repository.NewBooks(booksStore, hub, cfg)
//	for res := range books.Watch(ctx, id) {
//	    if res.Err != nil { ... }
//	    render(res.Value)
//	}
//
// The ISBN check is a lookup followed by an insert and is not atomic against
// concurrent writers; the unique index on books.isbn is the final guard and
// its violation is reported as DuplicateKey as well.
package repository
