package commands

import (
	"errors"
	"fmt"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addReview(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "review",
		Aliases: []string{"r"},
		Short:   "Work through items that are due for review.",
	}
	addReviewList(cmd, o)
	addReviewOutcome(cmd, o, "remember", "Mark an item remembered and advance its stage.", store.Remembered)
	addReviewOutcome(cmd, o, "forget", "Mark an item forgotten and reset it to the first stage.", store.Forgotten)
	addReviewOutcome(cmd, o, "undo", "Step an item back one stage.", store.Undo)
	topLevel.AddCommand(cmd)
}

func addReviewList(parent *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List due words and notes, earliest due first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				words, err := st.DueWords()
				if err != nil {
					return err
				}
				notes, err := st.DueKnowledgePoints()
				if err != nil {
					return err
				}

				tw := newTable(s.out)
				fmt.Fprintf(tw, "KIND\tITEM\tSTAGE\tLAST REVIEWED\tID\n")
				for _, w := range words {
					fmt.Fprintf(tw, "word\t%s\t%s\t%s\t%s\n", w.Text, w.ReviewStage, formatDate(w.LastReviewedAt, st.Location()), w.ID)
				}
				for _, kp := range notes {
					fmt.Fprintf(tw, "note\t%s\t%s\t%s\t%s\n", truncate(kp.Title, 40), kp.ReviewStage, formatDate(kp.LastReviewedAt, st.Location()), kp.ID)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%d due\n", len(words)+len(notes))
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}

// reviewItem applies outcome to the word or note with id.
func reviewItem(st *store.Store, id string, outcome store.Outcome) (string, domain.ReviewState, error) {
	w, err := st.ReviewWord(id, outcome)
	if err == nil {
		return w.Text, w.ReviewState, nil
	}
	if !errors.Is(err, store.ErrWordNotFound) {
		return "", domain.ReviewState{}, err
	}
	kp, err := st.ReviewKnowledgePoint(id, outcome)
	if err != nil {
		if store.IsNotFoundError(err) {
			return "", domain.ReviewState{}, fmt.Errorf("%w: no word or note with id %q", store.ErrNotFound, id)
		}
		return "", domain.ReviewState{}, err
	}
	return kp.Title, kp.ReviewState, nil
}

func addReviewOutcome(parent *cobra.Command, o *rootOptions, use, short string, outcome store.Outcome) {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				label, state, err := reviewItem(st, args[0], outcome)
				if err != nil {
					return err
				}
				due, ok, err := st.Scheduler().DueDate(state)
				if err != nil {
					return err
				}
				next := "never"
				if ok {
					next = due.In(st.Location()).Format("2006-01-02")
				}
				fmt.Fprintf(s.out, "%s: %s, next review %s\n", label, state.ReviewStage, next)
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}
