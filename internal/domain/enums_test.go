package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]ReadingStatus{
		{StatusUnread, StatusReading},
		{StatusUnread, StatusFinished},
		{StatusReading, StatusFinished},
		{StatusUnread, StatusUnread},
		{StatusFinished, StatusFinished},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]ReadingStatus{
		{StatusFinished, StatusUnread},
		{StatusFinished, StatusReading},
		{StatusReading, StatusUnread},
		{StatusUnread, "paused"},
	}
	for _, tr := range rejected {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestReadingStatus_NextIsACopy(t *testing.T) {
	next := StatusUnread.Next()
	next[0] = StatusFinished

	assert.Equal(t, []ReadingStatus{StatusReading, StatusFinished}, StatusUnread.Next())
	assert.Empty(t, StatusFinished.Next())
}

func TestImportance_Priority(t *testing.T) {
	assert.Greater(t, ImportanceHigh.Priority(), ImportanceMedium.Priority())
	assert.Greater(t, ImportanceMedium.Priority(), ImportanceLow.Priority())
	assert.False(t, Importance("urgent").Valid())
}

func TestParseEnums(t *testing.T) {
	status, err := ParseReadingStatus(" Reading ")
	require.NoError(t, err)
	assert.Equal(t, StatusReading, status)

	imp, err := ParseImportance("HIGH")
	require.NoError(t, err)
	assert.Equal(t, ImportanceHigh, imp)

	mt, err := ParseMotivationType("author_fan")
	require.NoError(t, err)
	assert.Equal(t, "Author fan", mt.DisplayName())

	_, err = ParseMotivationType("boredom")
	assert.Error(t, err)
}

func TestMotivationTypes_AreTen(t *testing.T) {
	assert.Len(t, MotivationTypes, 10)
	for _, m := range MotivationTypes {
		assert.True(t, m.Valid(), m)
	}
}
