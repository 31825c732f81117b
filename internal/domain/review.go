package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxReviewLength = 10000

type Review struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"book_id"`
	Content   string    `json:"content"`
	Rating    *float64  `json:"rating,omitempty"`
	IsDraft   bool      `json:"is_draft"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewReview(r Review) (*Review, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	return &r, nil
}

// Validate allows empty content only on drafts.
func (r Review) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required),
		validation.Field(&r.Content,
			validation.When(!r.IsDraft, validation.By(notBlank)),
			validation.RuneLength(0, MaxReviewLength),
		),
		validation.Field(&r.Rating, ratingRules()...),
	)
	return asValidationError("review", err)
}
