package workbook

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/xuri/excelize/v2"
)

// rowReader looks cells up by header name.
type rowReader struct {
	sheet  string
	index  int
	header map[string]int
	cells  []string
}

func (r rowReader) get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r rowReader) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r rowReader) errorf(column string, err error) error {
	return fmt.Errorf("%w: sheet %s row %d column %s: %w", ErrInvalidWorkbook, r.sheet, r.index, column, err)
}

type decoder struct {
	now int64
}

// eachRow calls fn for every non-blank data row of sheet. A missing sheet
// is not an error.
func (d decoder) eachRow(f *excelize.File, sheet string, fn func(rowReader) error) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("%w: sheet %s: %w", ErrInvalidWorkbook, sheet, err)
	}
	if len(rows) == 0 {
		return nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	for i, cells := range rows[1:] {
		row := rowReader{sheet: sheet, index: i + 2, header: header, cells: cells}
		if row.blank() {
			continue
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// number parses a numeric cell, falling back to def when blank or not a number.
func number(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return def
	}
	return int64(v)
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return domain.Ref(s)
}

func stage(s string) domain.Stage {
	st := domain.Stage(number(s, 0))
	if !st.Valid() {
		return domain.StageLearned
	}
	return st
}

func (d decoder) word(row rowReader) (domain.Word, error) {
	w := domain.Word{
		ID:        row.get("id"),
		Text:      row.get("text"),
		Notes:     row.get("notes"),
		CreatedAt: number(row.get("createdAt"), d.now),
		ReviewState: domain.ReviewState{
			ReviewStage:    stage(row.get("reviewStage")),
			LastReviewedAt: number(row.get("lastReviewedAt"), d.now),
		},
	}
	if w.ID == "" {
		w.ID = domain.NewID(domain.WordIDPrefix)
	}

	w.Definitions = []domain.WordDefinition{}
	if raw := row.get("definitions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &w.Definitions); err != nil {
			return domain.Word{}, row.errorf("definitions", err)
		}
	}
	if raw := row.get("readingRecordSource"); raw != "" {
		var src domain.ReadingRecordSource
		if err := json.Unmarshal([]byte(raw), &src); err != nil {
			return domain.Word{}, row.errorf("readingRecordSource", err)
		}
		w.ReadingRecordSource = &src
	}
	return w, nil
}

func (d decoder) note(row rowReader) domain.KnowledgePoint {
	kp := domain.KnowledgePoint{
		ID:         row.get("id"),
		Title:      row.get("title"),
		Content:    row.get("content"),
		Notes:      row.get("notes"),
		CategoryID: optionalString(row.get("categoryId")),
		Source:     optionalString(row.get("source")),
		CreatedAt:  number(row.get("createdAt"), d.now),
		ReviewState: domain.ReviewState{
			ReviewStage:    stage(row.get("reviewStage")),
			LastReviewedAt: number(row.get("lastReviewedAt"), d.now),
		},
	}
	if kp.ID == "" {
		kp.ID = domain.NewID(domain.NoteIDPrefix)
	}
	return kp
}

func (d decoder) category(row rowReader) domain.Category {
	c := domain.Category{
		ID:       row.get("id"),
		Name:     row.get("name"),
		ParentID: optionalString(row.get("parentId")),
	}
	if c.ID == "" {
		c.ID = domain.NewID(domain.CategoryIDPrefix)
	}
	return c
}

func (d decoder) task(row rowReader) domain.Task {
	t := domain.Task{
		ID:            row.get("id"),
		Text:          row.get("text"),
		Quadrant:      domain.TaskQuadrant(row.get("quadrant")),
		IsCompleted:   truthy(row.get("isCompleted")),
		CreatedAt:     number(row.get("createdAt"), d.now),
		IsCarriedOver: truthy(row.get("isCarriedOver")),
		IsLongTerm:    truthy(row.get("isLongTerm")),
	}
	if t.ID == "" {
		t.ID = domain.NewID(domain.TaskIDPrefix)
	}
	if !t.Quadrant.Valid() {
		t.Quadrant = domain.QuadrantUrgentImportant
	}
	if ms := number(row.get("completedAt"), 0); t.IsCompleted && ms != 0 {
		t.CompletedAt = &ms
	}
	if t.IsCompleted && t.CompletedAt == nil {
		created := t.CreatedAt
		t.CompletedAt = &created
	}
	return t
}
