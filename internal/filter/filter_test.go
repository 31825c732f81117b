package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/readingtracker/internal/domain"
)

func sample() []domain.Insight {
	return []domain.Insight{
		{ID: 1, Content: "Fear is the mind-killer", Importance: domain.ImportanceHigh, Tags: []string{"x", "fear"}},
		{ID: 2, Content: "Spice must flow", Importance: domain.ImportanceMedium, Tags: []string{"spice"}},
		{ID: 3, Content: "Water discipline", Importance: domain.ImportanceHigh, Tags: []string{"x"}},
		{ID: 4, Content: "Sandworms", Importance: domain.ImportanceLow},
	}
}

func ids(insights []domain.Insight) []uint {
	out := make([]uint, len(insights))
	for i, in := range insights {
		out[i] = in.ID
	}
	return out
}

func TestApply_Combinations(t *testing.T) {
	base := sample()

	tests := []struct {
		name   string
		filter InsightFilter
		want   []uint
	}{
		{"no filter", InsightFilter{}, []uint{1, 2, 3, 4}},
		{"tag", InsightFilter{}.WithTag("x"), []uint{1, 3}},
		{"importance", InsightFilter{}.WithImportance(domain.ImportanceHigh), []uint{1, 3}},
		{"tag and importance", InsightFilter{}.WithTag("x").WithImportance(domain.ImportanceMedium), []uint{}},
		{"query on content", InsightFilter{}.WithQuery("SPICE"), []uint{2}},
		{"query on tag", InsightFilter{}.WithQuery("fea"), []uint{1}},
		{"all three", InsightFilter{Tag: "x", Importance: domain.ImportanceHigh, Query: "water"}, []uint{3}},
		{"tag is exact", InsightFilter{}.WithTag("spic"), []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(base, tt.filter)))
		})
	}
}

func TestApply_IdempotentAndClearRestores(t *testing.T) {
	base := sample()
	f := InsightFilter{}.WithTag("x")

	once := Apply(base, f)
	twice := Apply(Apply(base, f), f)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("filtering twice differs (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(Apply(base, f), once); diff != "" {
		t.Errorf("same filter gave different results:\n%s", diff)
	}

	cleared := f.Cleared()
	assert.True(t, cleared.IsZero())
	if diff := cmp.Diff(base, Apply(base, cleared)); diff != "" {
		t.Errorf("cleared filter must restore base (-base +got):\n%s", diff)
	}
}

func TestApply_DoesNotAliasBase(t *testing.T) {
	base := sample()
	out := Apply(base, InsightFilter{})
	out[0].Content = "changed"
	assert.Equal(t, "Fear is the mind-killer", base[0].Content)
}

func TestWithIsImmutable(t *testing.T) {
	f := InsightFilter{}
	g := f.WithTag("x")
	assert.Empty(t, f.Tag)
	assert.Equal(t, "x", g.Tag)
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"fear", "spice", "x"}, CollectTags(sample()))
	assert.Equal(t, []string{"a", "b", "c"}, MergeTags([]string{"b", "a"}, " c ", "a", ""))
	assert.Equal(t, []string{"design", "go", "history"}, SplitStoredTags([]string{"go,design", "history", "go"}))
}
