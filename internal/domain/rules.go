// Package domain holds the validated in-memory records of the tracker and the
// field rules every record must satisfy before it exists.
//
// Records are built through their constructors (NewBook, NewReview,
// NewInsight, NewMotivation), which apply defaults and reject invalid field
// combinations outright. Validate re-checks an existing value and is what the
// repository layer calls before every write.
package domain

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

var (
	errBlank             = validation.NewError("validation_not_blank", "must not be blank")
	errInvalidISBN       = validation.NewError("validation_isbn", "must be a valid ISBN-10 or ISBN-13")
	errFinishBeforeStart = validation.NewError("validation_finish_before_start", "must not be before the start date")
	errRatingRange       = validation.NewError("validation_rating_range", "must be between 0 and 5")
	errPositive          = validation.NewError("validation_positive", "must be greater than 0")
	errTagComma          = validation.NewError("validation_tag_comma", "must not contain a comma")
	errUnknownValue      = validation.NewError("validation_unknown_value", "is not a recognised value")
)

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

// blankIfPresent rejects values that are set but contain only whitespace.
func blankIfPresent(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

func validISBN(value interface{}) error {
	s, _ := value.(string)
	if !IsValidISBN(s) {
		return errInvalidISBN
	}
	return nil
}

func noComma(value interface{}) error {
	s, _ := value.(string)
	if strings.Contains(s, ",") {
		return errTagComma
	}
	return nil
}

func notBefore(start *time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		finish, _ := value.(*time.Time)
		if start == nil || finish == nil {
			return nil
		}
		if finish.Before(*start) {
			return errFinishBeforeStart
		}
		return nil
	}
}

func valid(ok func() bool) validation.RuleFunc {
	return func(interface{}) error {
		if !ok() {
			return errUnknownValue
		}
		return nil
	}
}

// ratingRules covers an optional 0..5 rating.
func ratingRules() []validation.Rule {
	return []validation.Rule{
		validation.Min(MinRating).ErrorObject(errRatingRange),
		validation.Max(MaxRating).ErrorObject(errRatingRange),
	}
}

// positiveIntRules covers an optional strictly positive integer.
func positiveIntRules() []validation.Rule {
	return []validation.Rule{
		validation.NilOrNotEmpty.ErrorObject(errPositive),
		validation.Min(1).ErrorObject(errPositive),
	}
}

// asValidationError converts ozzo field errors into a typed validation
// failure whose details map field names to messages.
func asValidationError(entity string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if apperrors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, fe := range fieldErrs {
			details[field] = fe.Error()
		}
		return apperrors.ValidationWithDetails(fmt.Sprintf("invalid %s: %s", entity, fieldErrs.Error()), details)
	}
	return apperrors.Validationf("invalid %s", entity).WithCause(err)
}

var now = time.Now
