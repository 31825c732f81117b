package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxMotivationDetailsLength = 500

type ReadingMotivation struct {
	ID        uint           `json:"id"`
	BookID    uint           `json:"book_id"`
	Type      MotivationType `json:"type"`
	Details   string         `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewMotivation(m ReadingMotivation) (*ReadingMotivation, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	stamp(&m.CreatedAt, nil)
	return &m, nil
}

func (m ReadingMotivation) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.BookID, validation.Required),
		validation.Field(&m.Type, validation.By(valid(m.Type.Valid))),
		validation.Field(&m.Details, validation.RuneLength(0, MaxMotivationDetailsLength)),
	)
	return asValidationError("reading motivation", err)
}

// MotivationStat is the number of motivations recorded for one type.
type MotivationStat struct {
	Type  MotivationType `json:"type"`
	Count int64          `json:"count"`
}
