package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxInsightLength = 5000
	MaxInsightTags   = 20
	MaxTagLength     = 50
)

type Insight struct {
	ID         uint       `json:"id"`
	BookID     uint       `json:"book_id"`
	Content    string     `json:"content"`
	Importance Importance `json:"importance"`
	Tags       []string   `json:"tags"`
	Page       *int       `json:"page,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewInsight validates i with importance defaulting to medium and tags
// trimmed.
func NewInsight(i Insight) (*Insight, error) {
	if i.Importance == "" {
		i.Importance = ImportanceMedium
	}
	i.Tags = NormalizeTags(i.Tags)
	if err := i.Validate(); err != nil {
		return nil, err
	}
	stamp(&i.CreatedAt, &i.UpdatedAt)
	return &i, nil
}

func (i Insight) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.BookID, validation.Required),
		validation.Field(&i.Content,
			validation.By(notBlank),
			validation.RuneLength(0, MaxInsightLength),
		),
		validation.Field(&i.Importance, validation.By(valid(i.Importance.Valid))),
		validation.Field(&i.Tags,
			validation.Length(0, MaxInsightTags),
			validation.Each(
				validation.By(notBlank),
				validation.By(noComma),
				validation.RuneLength(0, MaxTagLength),
			),
		),
		validation.Field(&i.Page, positiveIntRules()...),
	)
	return asValidationError("insight", err)
}

func (i Insight) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags trims every tag and drops the empty ones.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags renders tags in their stored comma-joined form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags parses the stored comma-joined form.
func SplitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}
