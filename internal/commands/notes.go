package commands

import (
	"fmt"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addNotes(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note", "n"},
		Short:   "Manage knowledge points.",
	}
	addNotesList(cmd, o)
	addNotesAdd(cmd, o)
	addNotesDelete(cmd, o)
	topLevel.AddCommand(cmd)
}

func addNotesList(parent *cobra.Command, o *rootOptions) {
	var f store.NoteFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge points, optionally within a category subtree.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				forest := st.Outline()
				tw := newTable(s.out)
				fmt.Fprintf(tw, "ID\tTITLE\tCATEGORY\tSTAGE\n")
				for _, kp := range st.FilterKnowledgePoints(f) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", kp.ID, truncate(kp.Title, 40), forest.Label(kp.CategoryID), kp.ReviewStage)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&f.CategoryID, "category", "c", "", "Category id; notes in its subcategories are included.")
	cmd.Flags().BoolVar(&f.Unassigned, "unassigned", false, "Only notes without a category.")
	cmd.Flags().StringVarP(&f.Query, "search", "s", "", "Only notes containing this term.")
	parent.AddCommand(cmd)
}

func addNotesAdd(parent *cobra.Command, o *rootOptions) {
	var (
		content    string
		notes      string
		categoryID string
		source     string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a knowledge point.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp := domain.KnowledgePoint{Title: args[0], Content: content, Notes: notes}
			if categoryID != "" {
				kp.CategoryID = domain.Ref(categoryID)
			}
			if source != "" {
				kp.Source = domain.Ref(source)
			}
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				added, err := st.AddKnowledgePoint(kp)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "added %s (%s) under %s\n", added.Title, added.ID, st.Outline().Label(added.CategoryID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "Body of the note.")
	cmd.Flags().StringVar(&notes, "notes", "", "Additional remarks.")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Category id.")
	cmd.Flags().StringVar(&source, "source", "", "Citation or origin.")
	_ = cmd.MarkFlagRequired("content")
	parent.AddCommand(cmd)
}

func addNotesDelete(parent *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a knowledge point.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if !st.DeleteKnowledgePoint(args[0]) {
					return fmt.Errorf("%w %q", store.ErrKnowledgePointNotFound, args[0])
				}
				fmt.Fprintf(s.out, "deleted %s\n", args[0])
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}
