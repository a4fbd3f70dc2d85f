package outline

import (
	"testing"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cat(id, name string, parent ...string) domain.Category {
	c := domain.Category{ID: id, Name: name}
	if len(parent) > 0 {
		c.ParentID = domain.Ref(parent[0])
	}
	return c
}

// chain builds A -> B -> C plus an unrelated root D.
func chain() *Forest {
	return New([]domain.Category{
		cat("a", "Alpha"),
		cat("b", "Beta", "a"),
		cat("c", "Gamma", "b"),
		cat("d", "Delta"),
	})
}

func TestResolvePath(t *testing.T) {
	t.Parallel()
	f := chain()

	assert.Equal(t, "Alpha / Beta / Gamma", f.ResolvePath("c"))
	assert.Equal(t, "Alpha", f.ResolvePath("a"))
	assert.Equal(t, "", f.ResolvePath("missing"))
	assert.Equal(t, UnassignedLabel, f.Label(nil))
	assert.Equal(t, "Alpha / Beta", f.Label(domain.Ref("b")))
}

func TestResolvePath_StopsOnCycle(t *testing.T) {
	t.Parallel()
	// Not constructible through ValidateParent, but data loaded from disk may contain it.
	f := New([]domain.Category{
		cat("x", "X", "y"),
		cat("y", "Y", "x"),
	})

	assert.Equal(t, "Y / X", f.ResolvePath("x"))
	assert.Empty(t, f.Flatten())
	assert.False(t, f.IsWithin("x", "z"))
}

func TestValidateParent(t *testing.T) {
	t.Parallel()
	f := chain()

	tests := []struct {
		name    string
		id      string
		parent  *string
		wantErr error
	}{
		{"root is always fine", "c", nil, nil},
		{"self parent", "a", domain.Ref("a"), ErrSelfParent},
		{"descendant as parent", "a", domain.Ref("c"), ErrCycle},
		{"child as parent", "b", domain.Ref("c"), ErrCycle},
		{"sibling tree", "a", domain.Ref("d"), nil},
		{"move leaf", "c", domain.Ref("a"), nil},
		{"unknown parent", "a", domain.Ref("nope"), ErrCategoryNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := f.ValidateParent(tc.id, tc.parent)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCheckDelete(t *testing.T) {
	t.Parallel()
	f := chain()
	notes := []domain.KnowledgePoint{
		{ID: "kp-1", CategoryID: domain.Ref("d")},
		{ID: "kp-2", CategoryID: domain.Ref("d")},
		{ID: "kp-3"},
	}

	assert.ErrorIs(t, f.CheckDelete("a", notes), ErrCategoryHasChildren)
	assert.ErrorIs(t, f.CheckDelete("d", notes), ErrCategoryInUse)
	assert.ErrorIs(t, f.CheckDelete("zzz", notes), ErrCategoryNotFound)
	assert.NoError(t, f.CheckDelete("c", notes))
	assert.Equal(t, 2, UsageCount(notes, "d"))
	assert.Equal(t, 0, UsageCount(notes, "a"))
}

func TestChildrenAndSubtree(t *testing.T) {
	t.Parallel()
	f := New([]domain.Category{
		cat("r", "Root"),
		cat("z", "zeta", "r"),
		cat("m", "Mu", "r"),
		cat("a", "alpha", "r"),
		cat("m1", "Mu child", "m"),
	})

	children := f.ChildrenOf(domain.Ref("r"))
	require.Len(t, children, 3)
	assert.Equal(t, "z", children[0].ID, "insertion order kept")

	sorted := f.SortedChildren(domain.Ref("r"))
	assert.Equal(t, []string{"a", "m", "z"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})

	assert.Len(t, f.ChildrenOf(nil), 1)
	assert.True(t, f.HasChildren("m"))
	assert.False(t, f.HasChildren("m1"))

	sub := f.Subtree("m")
	assert.Len(t, sub, 2)
	assert.Contains(t, sub, "m1")

	assert.True(t, f.IsWithin("m1", "r"))
	assert.True(t, f.IsWithin("m", "m"))
	assert.False(t, f.IsWithin("r", "m"))
}

func TestFlatten(t *testing.T) {
	t.Parallel()
	f := chain()

	nodes := f.Flatten()
	require.Len(t, nodes, 4)
	assert.Equal(t, "a", nodes[0].Category.ID)
	assert.Equal(t, 0, nodes[0].Depth)
	assert.Equal(t, "b", nodes[1].Category.ID)
	assert.Equal(t, 1, nodes[1].Depth)
	assert.Equal(t, "Alpha / Beta / Gamma", nodes[2].Path)
	assert.Equal(t, 2, nodes[2].Depth)
	assert.Equal(t, "d", nodes[3].Category.ID)
}

func TestIsReadingRecord(t *testing.T) {
	t.Parallel()
	f := New(domain.DefaultCategories())

	assert.True(t, f.IsReadingRecord(domain.ReadingLogNovelID))
	assert.False(t, f.IsReadingRecord(domain.ReadingLogCategoryID))
	assert.False(t, f.IsReadingRecord(domain.DailyThoughtsCategoryID))
}
