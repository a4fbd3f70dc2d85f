package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnowledgePointNormalize(t *testing.T) {
	t.Parallel()
	kp := KnowledgePoint{
		ID:         "kp-1",
		Title:      " Title ",
		Content:    " body ",
		CategoryID: Ref(""),
		Source:     Ref("   "),
	}

	kp.Normalize()

	assert.Equal(t, "Title", kp.Title)
	assert.Equal(t, "body", kp.Content)
	assert.Nil(t, kp.CategoryID)
	assert.Nil(t, kp.Source)
	assert.NoError(t, kp.Validate())
}

func TestKnowledgePointValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		kp      KnowledgePoint
		wantErr error
	}{
		{"valid", KnowledgePoint{ID: "kp-1", Title: "t", Content: "c"}, nil},
		{"missing id", KnowledgePoint{Title: "t", Content: "c"}, ErrInvalidID},
		{"missing title", KnowledgePoint{ID: "kp-1", Content: "c"}, ErrEmptyNoteTitle},
		{"missing content", KnowledgePoint{ID: "kp-1", Title: "t", Content: " "}, ErrEmptyNoteContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.kp.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestKnowledgePointMatchesAndCategory(t *testing.T) {
	t.Parallel()
	kp := KnowledgePoint{
		Title:      "Zettelkasten",
		Content:    "linked notes",
		Source:     Ref("Ahrens 2017"),
		CategoryID: Ref(LiteratureIdeasCategoryID),
	}

	assert.True(t, kp.Matches("ahrens"))
	assert.True(t, kp.Matches("LINKED"))
	assert.False(t, kp.Matches("cards"))
	assert.True(t, kp.InCategory(LiteratureIdeasCategoryID))
	assert.False(t, kp.InCategory(DailyThoughtsCategoryID))
}
