// Package workbook converts a knowledge-base snapshot to and from an .xlsx
// workbook with one sheet per collection. Nested values (definitions,
// reading-record sources) are stored as JSON text in a single cell.
package workbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetWords           = "Words"
	SheetKnowledgePoints = "KnowledgePoints"
	SheetCategories      = "Categories"
	SheetTasks           = "Tasks"
)

// ErrInvalidWorkbook is returned when a file cannot be read as a workbook or
// a cell cannot be decoded.
var ErrInvalidWorkbook = errors.New("invalid workbook")

var (
	wordColumns = []string{"id", "text", "definitions", "notes", "readingRecordSource",
		"createdAt", "reviewStage", "lastReviewedAt"}
	noteColumns = []string{"id", "title", "content", "notes", "categoryId", "source",
		"createdAt", "reviewStage", "lastReviewedAt"}
	categoryColumns = []string{"id", "name", "parentId"}
	taskColumns     = []string{"id", "text", "quadrant", "isCompleted", "completedAt",
		"createdAt", "isCarriedOver", "isLongTerm"}
)

// Write encodes snap as a workbook.
func Write(w io.Writer, snap domain.Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetWords); err != nil {
		return err
	}
	for _, name := range []string{SheetKnowledgePoints, SheetCategories, SheetTasks} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	words := make([][]any, 0, len(snap.Words))
	for _, wd := range snap.Words {
		defs, err := jsonCell(wd.Definitions)
		if err != nil {
			return err
		}
		var source any
		if wd.ReadingRecordSource != nil {
			if source, err = jsonCell(wd.ReadingRecordSource); err != nil {
				return err
			}
		}
		words = append(words, []any{wd.ID, wd.Text, defs, wd.Notes, source,
			wd.CreatedAt, int(wd.ReviewStage), wd.LastReviewedAt})
	}

	notes := make([][]any, 0, len(snap.KnowledgePoints))
	for _, kp := range snap.KnowledgePoints {
		notes = append(notes, []any{kp.ID, kp.Title, kp.Content, kp.Notes, optional(kp.CategoryID),
			optional(kp.Source), kp.CreatedAt, int(kp.ReviewStage), kp.LastReviewedAt})
	}

	categories := make([][]any, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		categories = append(categories, []any{c.ID, c.Name, optional(c.ParentID)})
	}

	tasks := make([][]any, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		var completedAt any
		if t.CompletedAt != nil {
			completedAt = *t.CompletedAt
		}
		tasks = append(tasks, []any{t.ID, t.Text, string(t.Quadrant), t.IsCompleted, completedAt,
			t.CreatedAt, t.IsCarriedOver, t.IsLongTerm})
	}

	for _, s := range []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{SheetWords, wordColumns, words},
		{SheetKnowledgePoints, noteColumns, notes},
		{SheetCategories, categoryColumns, categories},
		{SheetTasks, taskColumns, tasks},
	} {
		if err := writeSheet(f, s.name, s.columns, s.rows); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]any) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func jsonCell(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Read decodes a workbook written by Write or edited by hand. Missing sheets
// yield empty collections; missing ids are generated and missing timestamps
// default to now.
func Read(r io.Reader, now time.Time) (domain.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	d := decoder{now: domain.Millis(now)}
	snap := domain.EmptySnapshot()

	if err := d.eachRow(f, SheetWords, func(row rowReader) error {
		w, err := d.word(row)
		if err == nil {
			snap.Words = append(snap.Words, w)
		}
		return err
	}); err != nil {
		return domain.Snapshot{}, err
	}
	if err := d.eachRow(f, SheetKnowledgePoints, func(row rowReader) error {
		snap.KnowledgePoints = append(snap.KnowledgePoints, d.note(row))
		return nil
	}); err != nil {
		return domain.Snapshot{}, err
	}
	if err := d.eachRow(f, SheetCategories, func(row rowReader) error {
		snap.Categories = append(snap.Categories, d.category(row))
		return nil
	}); err != nil {
		return domain.Snapshot{}, err
	}
	if err := d.eachRow(f, SheetTasks, func(row rowReader) error {
		snap.Tasks = append(snap.Tasks, d.task(row))
		return nil
	}); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}
