package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySnapshotEncodesEmptyArrays(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(EmptySnapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"words":[],"knowledgePoints":[],"categories":[],"tasks":[]}`, string(data))
	assert.True(t, Snapshot{}.IsEmpty())
	assert.NotNil(t, Snapshot{}.WithDefaults().Tasks)
}

func TestWordWireFormat(t *testing.T) {
	t.Parallel()
	raw := `{"id":"word-1","text":"lucid","definitions":[{"partOfSpeech":"adjective","definition":"clear"}],
		"notes":"","createdAt":1700000000000,"reviewStage":2,"lastReviewedAt":1700000000000}`

	var w Word
	require.NoError(t, json.NewDecoder(strings.NewReader(raw)).Decode(&w))
	assert.Equal(t, StageReviewAfter2Days, w.ReviewStage)
	assert.Equal(t, int64(1700000000000), w.LastReviewedAt)

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"reviewStage":2`)
	assert.NotContains(t, string(out), "readingRecordSource")
}

func TestTimeHelpers(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+8", 8*3600)
	ts := time.Date(2024, time.January, 2, 23, 30, 0, 0, loc)

	assert.Equal(t, ts.UnixMilli(), Millis(ts))
	assert.True(t, ts.Equal(TimeOf(Millis(ts), loc)))
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, loc), StartOfDay(ts))
	assert.Equal(t, "2024-01-02", DateKey(ts))
	assert.True(t, SameDay(ts, ts.Add(20*time.Minute), loc))
	assert.False(t, SameDay(ts, ts.Add(40*time.Minute), loc))
	assert.True(t, SameDay(ts, ts.Add(40*time.Minute), time.UTC))
}
