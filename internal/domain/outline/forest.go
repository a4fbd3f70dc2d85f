// Package outline maintains the category forest: path resolution, parent
// validation, deletion guards and display ordering.
package outline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/phrazzld/lumina/internal/domain"
)

// PathSeparator joins category names in a resolved path.
const PathSeparator = " / "

// UnassignedLabel is shown for notes without a category.
const UnassignedLabel = "Uncategorized"

// Structural errors returned by the forest.
var (
	// ErrCategoryNotFound is returned when a category id is unknown.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrSelfParent is returned when a category would become its own parent.
	ErrSelfParent = errors.New("category cannot be its own parent")

	// ErrCycle is returned when a parent change would make a category its own ancestor.
	ErrCycle = errors.New("parent change would create a cycle")

	// ErrCategoryInUse is returned when notes still reference a category.
	ErrCategoryInUse = errors.New("category still has dependent notes")

	// ErrCategoryHasChildren is returned when a category still has subcategories.
	ErrCategoryHasChildren = errors.New("category still has subcategories")
)

// Forest is a read-only index over a slice of categories. It is cheap to
// build and should be rebuilt after the category collection changes.
type Forest struct {
	byID     map[string]domain.Category
	order    []string
	children map[string][]string
}

// rootKey indexes root categories in the children map.
const rootKey = ""

// New indexes categories. Later duplicates of an id replace earlier ones.
func New(categories []domain.Category) *Forest {
	f := &Forest{
		byID:     make(map[string]domain.Category, len(categories)),
		order:    make([]string, 0, len(categories)),
		children: make(map[string][]string),
	}
	for _, c := range categories {
		if _, seen := f.byID[c.ID]; !seen {
			f.order = append(f.order, c.ID)
		}
		f.byID[c.ID] = c
	}
	for _, id := range f.order {
		c := f.byID[id]
		key := rootKey
		if c.ParentID != nil {
			key = *c.ParentID
		}
		f.children[key] = append(f.children[key], id)
	}
	return f
}

// Len returns the number of categories.
func (f *Forest) Len() int { return len(f.order) }

// Has reports whether id is a known category.
func (f *Forest) Has(id string) bool {
	_, ok := f.byID[id]
	return ok
}

// Get returns the category with id.
func (f *Forest) Get(id string) (domain.Category, bool) {
	c, ok := f.byID[id]
	return c, ok
}

// ResolvePath joins the names from the root down to id with PathSeparator.
// A cycle stops the walk and the partial path is returned. Unknown ids yield "".
func (f *Forest) ResolvePath(id string) string {
	var names []string
	visited := make(map[string]struct{})
	current, ok := f.byID[id]
	for ok {
		if _, seen := visited[current.ID]; seen {
			break
		}
		visited[current.ID] = struct{}{}
		names = append(names, current.Name)
		if current.ParentID == nil {
			break
		}
		current, ok = f.byID[*current.ParentID]
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator)
}

// Label resolves the path for an optional category reference, falling back
// to UnassignedLabel.
func (f *Forest) Label(categoryID *string) string {
	if categoryID == nil {
		return UnassignedLabel
	}
	if path := f.ResolvePath(*categoryID); path != "" {
		return path
	}
	return UnassignedLabel
}

// ancestors walks parent links from id upward, excluding id itself, and
// stops on a repeated node.
func (f *Forest) ancestors(id string, visit func(string) bool) {
	visited := map[string]struct{}{id: {}}
	current, ok := f.byID[id]
	for ok && current.ParentID != nil {
		parent := *current.ParentID
		if _, seen := visited[parent]; seen {
			return
		}
		visited[parent] = struct{}{}
		if !visit(parent) {
			return
		}
		current, ok = f.byID[parent]
	}
}

// ValidateParent checks that giving category id the parent parentID keeps the
// forest acyclic. A nil parentID (root) is always valid.
func (f *Forest) ValidateParent(id string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return ErrSelfParent
	}
	if !f.Has(*parentID) {
		return fmt.Errorf("parent %q: %w", *parentID, ErrCategoryNotFound)
	}
	cycle := false
	f.ancestors(*parentID, func(ancestor string) bool {
		if ancestor == id {
			cycle = true
			return false
		}
		return true
	})
	if cycle {
		return ErrCycle
	}
	return nil
}

// IsWithin reports whether id equals ancestorID or lies in its subtree.
func (f *Forest) IsWithin(id, ancestorID string) bool {
	if id == ancestorID {
		return true
	}
	within := false
	f.ancestors(id, func(ancestor string) bool {
		if ancestor == ancestorID {
			within = true
			return false
		}
		return true
	})
	return within
}

// Subtree returns the ids of ancestorID and all its descendants.
func (f *Forest) Subtree(ancestorID string) map[string]struct{} {
	ids := make(map[string]struct{})
	stack := []string{ancestorID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := ids[id]; seen {
			continue
		}
		ids[id] = struct{}{}
		stack = append(stack, f.children[id]...)
	}
	return ids
}

// ChildrenOf returns the categories whose parent is parentID (roots for nil)
// in insertion order.
func (f *Forest) ChildrenOf(parentID *string) []domain.Category {
	key := rootKey
	if parentID != nil {
		key = *parentID
	}
	ids := f.children[key]
	out := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.byID[id])
	}
	return out
}

// SortedChildren is ChildrenOf ordered by name.
func (f *Forest) SortedChildren(parentID *string) []domain.Category {
	out := f.ChildrenOf(parentID)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// HasChildren reports whether any category names id as its parent.
func (f *Forest) HasChildren(id string) bool {
	return len(f.children[id]) > 0
}

// UsageCount counts notes filed directly under categoryID.
func UsageCount(notes []domain.KnowledgePoint, categoryID string) int {
	n := 0
	for _, kp := range notes {
		if kp.InCategory(categoryID) {
			n++
		}
	}
	return n
}

// CheckDelete reports why id cannot be deleted, or nil when it can.
func (f *Forest) CheckDelete(id string, notes []domain.KnowledgePoint) error {
	if !f.Has(id) {
		return ErrCategoryNotFound
	}
	if n := UsageCount(notes, id); n > 0 {
		return fmt.Errorf("%w (%d)", ErrCategoryInUse, n)
	}
	if f.HasChildren(id) {
		return ErrCategoryHasChildren
	}
	return nil
}

// IsReadingRecord reports whether id is a direct child of the reading log root.
func (f *Forest) IsReadingRecord(id string) bool {
	c, ok := f.byID[id]
	return ok && c.HasParent(domain.ReadingLogCategoryID)
}

// Node is one row of a flattened outline.
type Node struct {
	Category domain.Category
	Depth    int
	Path     string
}

// Flatten walks the forest depth first, siblings sorted by name. Categories
// unreachable from a root (cycle members, dangling parents) are omitted.
func (f *Forest) Flatten() []Node {
	out := make([]Node, 0, len(f.order))
	visited := make(map[string]struct{}, len(f.order))
	var walk func(parentID *string, depth int)
	walk = func(parentID *string, depth int) {
		for _, c := range f.SortedChildren(parentID) {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}
			out = append(out, Node{Category: c, Depth: depth, Path: f.ResolvePath(c.ID)})
			id := c.ID
			walk(&id, depth+1)
		}
	}
	walk(nil, 0)
	return out
}
