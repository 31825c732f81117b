package domain

import (
	"fmt"
	"strings"
)

type ReadingStatus string

const (
	StatusUnread   ReadingStatus = "unread"
	StatusReading  ReadingStatus = "reading"
	StatusFinished ReadingStatus = "finished"
)

// ReadingStatuses lists every status in lifecycle order.
var ReadingStatuses = []ReadingStatus{StatusUnread, StatusReading, StatusFinished}

// statusTransitions is the adjacency map of forward moves. Finished is terminal.
var statusTransitions = map[ReadingStatus][]ReadingStatus{
	StatusUnread:   {StatusReading, StatusFinished},
	StatusReading:  {StatusFinished},
	StatusFinished: {},
}

func (s ReadingStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s ReadingStatus) DisplayName() string {
	switch s {
	case StatusUnread:
		return "Unread"
	case StatusReading:
		return "Reading"
	case StatusFinished:
		return "Finished"
	default:
		return string(s)
	}
}

// Next returns the statuses reachable from s in one move.
func (s ReadingStatus) Next() []ReadingStatus {
	next := statusTransitions[s]
	out := make([]ReadingStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether a book may move from one status to another.
// Staying on the same status is always allowed.
func CanTransition(from, to ReadingStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ParseReadingStatus(s string) (ReadingStatus, error) {
	status := ReadingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown reading status %q", s)
	}
	return status, nil
}

type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Importances lists every level from most to least important.
var Importances = []Importance{ImportanceHigh, ImportanceMedium, ImportanceLow}

// Priority orders importance levels; higher sorts first.
func (i Importance) Priority() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 1
	default:
		return 0
	}
}

func (i Importance) Valid() bool {
	return i.Priority() > 0
}

func (i Importance) DisplayName() string {
	switch i {
	case ImportanceHigh:
		return "High"
	case ImportanceMedium:
		return "Medium"
	case ImportanceLow:
		return "Low"
	default:
		return string(i)
	}
}

func ParseImportance(s string) (Importance, error) {
	imp := Importance(strings.ToLower(strings.TrimSpace(s)))
	if !imp.Valid() {
		return "", fmt.Errorf("unknown importance %q", s)
	}
	return imp, nil
}

type MotivationType string

const (
	MotivationRecommendation MotivationType = "recommendation"
	MotivationBestseller     MotivationType = "bestseller"
	MotivationAuthorFan      MotivationType = "author_fan"
	MotivationTopicInterest  MotivationType = "topic_interest"
	MotivationCoverDesign    MotivationType = "cover_design"
	MotivationReview         MotivationType = "review"
	MotivationGift           MotivationType = "gift"
	MotivationStudy          MotivationType = "study"
	MotivationWork           MotivationType = "work"
	MotivationOther          MotivationType = "other"
)

var motivationNames = map[MotivationType]string{
	MotivationRecommendation: "Recommendation",
	MotivationBestseller:     "Bestseller",
	MotivationAuthorFan:      "Author fan",
	MotivationTopicInterest:  "Topic interest",
	MotivationCoverDesign:    "Cover design",
	MotivationReview:         "Review",
	MotivationGift:           "Gift",
	MotivationStudy:          "Study",
	MotivationWork:           "Work",
	MotivationOther:          "Other",
}

// MotivationTypes lists the ten motivation categories.
var MotivationTypes = []MotivationType{
	MotivationRecommendation,
	MotivationBestseller,
	MotivationAuthorFan,
	MotivationTopicInterest,
	MotivationCoverDesign,
	MotivationReview,
	MotivationGift,
	MotivationStudy,
	MotivationWork,
	MotivationOther,
}

func (m MotivationType) Valid() bool {
	_, ok := motivationNames[m]
	return ok
}

func (m MotivationType) DisplayName() string {
	if name, ok := motivationNames[m]; ok {
		return name
	}
	return string(m)
}

func ParseMotivationType(s string) (MotivationType, error) {
	m := MotivationType(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown motivation type %q", s)
	}
	return m, nil
}
