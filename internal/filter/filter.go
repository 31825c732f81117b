// Package filter composes insight filters over a base list.
//
// An InsightFilter is an immutable snapshot; the With methods return a new
// snapshot. Apply intersects every active predicate over the base list and
// never mutates it, so applying the same snapshot twice, or re-applying to
// its own output, yields the same result.
package filter

import (
	"sort"
	"strings"

	"github.com/mrlokans/readingtracker/internal/domain"
)

// InsightFilter selects insights. Zero fields are inactive.
type InsightFilter struct {
	Tag        string            `json:"tag,omitempty"`
	Importance domain.Importance `json:"importance,omitempty"`
	Query      string            `json:"query,omitempty"`
}

func (f InsightFilter) WithTag(tag string) InsightFilter {
	f.Tag = strings.TrimSpace(tag)
	return f
}

func (f InsightFilter) WithImportance(imp domain.Importance) InsightFilter {
	f.Importance = imp
	return f
}

func (f InsightFilter) WithQuery(q string) InsightFilter {
	f.Query = strings.TrimSpace(q)
	return f
}

// Cleared drops every predicate.
func (f InsightFilter) Cleared() InsightFilter {
	return InsightFilter{}
}

func (f InsightFilter) IsZero() bool {
	return f == InsightFilter{}
}

// Match reports whether in satisfies every active predicate. The query
// matches content or any tag, case-insensitively.
func (f InsightFilter) Match(in domain.Insight) bool {
	if f.Tag != "" && !in.HasTag(f.Tag) {
		return false
	}
	if f.Importance != "" && in.Importance != f.Importance {
		return false
	}
	if f.Query != "" && !matchesQuery(in, strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func matchesQuery(in domain.Insight, q string) bool {
	if strings.Contains(strings.ToLower(in.Content), q) {
		return true
	}
	for _, t := range in.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Apply returns the insights of base matching f, in base order, as a new
// slice.
func Apply(base []domain.Insight, f InsightFilter) []domain.Insight {
	out := make([]domain.Insight, 0, len(base))
	for _, in := range base {
		if f.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

// CollectTags returns the distinct tags of insights, sorted.
func CollectTags(insights []domain.Insight) []string {
	set := make(map[string]struct{})
	for _, in := range insights {
		for _, t := range in.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// MergeTags adds extra to known, keeping the result distinct and sorted.
func MergeTags(known []string, extra ...string) []string {
	set := make(map[string]struct{}, len(known)+len(extra))
	for _, t := range known {
		set[t] = struct{}{}
	}
	for _, t := range domain.NormalizeTags(extra) {
		set[t] = struct{}{}
	}
	return sortedKeys(set)
}

// SplitStoredTags expands stored comma-joined tag lists into distinct
// sorted tags.
func SplitStoredTags(stored []string) []string {
	set := make(map[string]struct{})
	for _, s := range stored {
		for _, t := range domain.SplitTags(s) {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
