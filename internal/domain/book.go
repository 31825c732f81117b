package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

type Book struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Author      string        `json:"author,omitempty"`
	ISBN        string        `json:"isbn,omitempty"`
	Publisher   string        `json:"publisher,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	Description string        `json:"description,omitempty"`
	CoverURL    string        `json:"cover_url,omitempty"`
	PageCount   *int          `json:"page_count,omitempty"`
	Status      ReadingStatus `json:"status"`
	Rating      *float64      `json:"rating,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewBook validates b and returns it with defaults applied: status unread,
// ISBN normalized, timestamps set.
func NewBook(b Book) (*Book, error) {
	if b.Status == "" {
		b.Status = StatusUnread
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.ISBN = NormalizeISBN(b.ISBN)
	stamp(&b.CreatedAt, &b.UpdatedAt)
	return &b, nil
}

func (b Book) Validate() error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.By(notBlank)),
		validation.Field(&b.Author, validation.By(blankIfPresent)),
		validation.Field(&b.ISBN, validation.By(validISBN)),
		validation.Field(&b.PageCount, positiveIntRules()...),
		validation.Field(&b.Status, validation.By(valid(b.Status.Valid))),
		validation.Field(&b.Rating, ratingRules()...),
		validation.Field(&b.FinishedAt, validation.By(notBefore(b.StartedAt))),
	)
	return asValidationError("book", err)
}

// WithStatus returns a copy moved to status, stamping the start date when
// reading begins and the finish date when it ends. Existing dates are kept.
// It does not consult the transition table.
func (b Book) WithStatus(status ReadingStatus, at time.Time) Book {
	b.Status = status
	switch status {
	case StatusReading:
		if b.StartedAt == nil {
			b.StartedAt = &at
		}
	case StatusFinished:
		if b.FinishedAt == nil {
			b.FinishedAt = &at
		}
	}
	return b
}

// Transition is WithStatus guarded by the transition table.
func (b Book) Transition(status ReadingStatus, at time.Time) (Book, error) {
	if !CanTransition(b.Status, status) {
		return b, apperrors.Validationf("cannot move book from %s to %s", b.Status, status).
			WithDetails(map[string]string{"status": "transition not allowed"})
	}
	return b.WithStatus(status, at), nil
}

type BookStatistics struct {
	Total    int64 `json:"total"`
	Unread   int64 `json:"unread"`
	Reading  int64 `json:"reading"`
	Finished int64 `json:"finished"`
}

func stamp(created, updated *time.Time) {
	t := now()
	if created.IsZero() {
		*created = t
	}
	if updated != nil && updated.IsZero() {
		*updated = *created
	}
}
