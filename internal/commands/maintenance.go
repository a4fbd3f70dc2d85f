package commands

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/platform/remote"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addClear(topLevel *cobra.Command, o *rootOptions) {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every word, note, category and task.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the knowledge base without --yes")
			}
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if err := st.ImportAll(cmd.Context(), domain.EmptySnapshot()); err != nil {
					return fmt.Errorf("cleared locally but save failed: %w", err)
				}
				fmt.Fprintln(s.out, "knowledge base cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion.")
	topLevel.AddCommand(cmd)
}

func addHistory(topLevel *cobra.Command, o *rootOptions) {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived revisions kept by the persistence endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o)
			if err != nil {
				return err
			}
			revs, err := s.remote.History(cmd.Context(), limit)
			var se *remote.StatusError
			if errors.As(err, &se) && se.Status == http.StatusNotImplemented {
				return fmt.Errorf("%w: %s keeps no history", blob.ErrUnsupported, s.remote.Endpoint())
			}
			if err != nil {
				return err
			}
			tw := newTable(s.out)
			fmt.Fprintf(tw, "ID\tARCHIVED\tBYTES\n")
			for _, r := range revs {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", r.ID, r.ArchivedAt.In(s.cfg.Review.Location()).Format("2006-01-02 15:04:05"), r.Bytes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of revisions to list, at most 100.")
	topLevel.AddCommand(cmd)
}

func addLookup(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look a word up in the dictionary without saving it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o)
			if err != nil {
				return err
			}
			defs, err := s.dictionaryProvider(cmd.Context()).Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(defs) == 0 {
				fmt.Fprintf(s.out, "no definitions found for %q\n", args[0])
				return nil
			}
			for _, d := range defs {
				fmt.Fprintf(s.out, "%s: %s\n", d.PartOfSpeech, d.Definition)
				if d.Example != "" {
					fmt.Fprintf(s.out, "    %s\n", d.Example)
				}
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
