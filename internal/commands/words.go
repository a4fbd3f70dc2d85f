package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addWords(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "words",
		Aliases: []string{"word", "w"},
		Short:   "Manage vocabulary.",
	}
	addWordsList(cmd, o)
	addWordsAdd(cmd, o)
	addWordsDelete(cmd, o)
	topLevel.AddCommand(cmd)
}

func addWordsList(parent *cobra.Command, o *rootOptions) {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List words, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				words := st.Words()
				if search != "" {
					words = st.SearchWords(search)
				}
				tw := newTable(s.out)
				fmt.Fprintf(tw, "ID\tWORD\tSTAGE\tDEFINITION\n")
				for _, w := range words {
					def := ""
					if len(w.Definitions) > 0 {
						def = w.Definitions[0].PartOfSpeech + ": " + w.Definitions[0].Definition
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.ID, w.Text, w.ReviewStage, truncate(def, 60))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only words whose text, definitions or notes contain this term.")
	parent.AddCommand(cmd)
}

// parseDefinition reads "part-of-speech:meaning".
func parseDefinition(raw string) (domain.WordDefinition, error) {
	pos, def, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(pos) == "" || strings.TrimSpace(def) == "" {
		return domain.WordDefinition{}, fmt.Errorf("definition %q must look like part-of-speech:meaning", raw)
	}
	return domain.WordDefinition{
		PartOfSpeech: domain.NormalizePartOfSpeech(strings.TrimSpace(pos)),
		Definition:   strings.TrimSpace(def),
	}, nil
}

func addWordsAdd(parent *cobra.Command, o *rootOptions) {
	var (
		defs      []string
		notes     string
		noLookup  bool
		readingID string
		reference string
	)
	cmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Add a word. Definitions are looked up when none are given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := domain.Word{Text: args[0], Notes: notes}
			for _, raw := range defs {
				d, err := parseDefinition(raw)
				if err != nil {
					return err
				}
				w.Definitions = append(w.Definitions, d)
			}
			if reference != "" {
				w.ReadingRecordSource = &domain.ReadingRecordSource{CategoryID: readingID, ReferenceName: reference}
			}

			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if len(w.Definitions) == 0 && !noLookup {
					w.Definitions = dictionary.Prefill(cmd.Context(), s.dictionaryProvider(cmd.Context()), w.Text, s.logger)
				}
				added, err := st.AddWord(w)
				if errors.Is(err, domain.ErrNoDefinitions) {
					return fmt.Errorf("no definition found for %q; pass one with --def noun:meaning", w.Text)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "added %s (%s)\n", added.Text, added.ID)
				for _, d := range added.Definitions {
					fmt.Fprintf(s.out, "  %s: %s\n", d.PartOfSpeech, d.Definition)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&defs, "def", "d", nil, "Definition as part-of-speech:meaning. Repeatable.")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes.")
	cmd.Flags().BoolVar(&noLookup, "no-lookup", false, "Do not query the dictionary.")
	cmd.Flags().StringVar(&readingID, "reading-category", domain.ReadingLogReferenceID, "Reading-log category the word was met under.")
	cmd.Flags().StringVar(&reference, "reference", "", "Book, paper or article the word was met in.")
	parent.AddCommand(cmd)
}

func addWordsDelete(parent *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a word.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if !st.DeleteWord(args[0]) {
					return fmt.Errorf("%w %q", store.ErrWordNotFound, args[0])
				}
				fmt.Fprintf(s.out, "deleted %s\n", args[0])
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}
