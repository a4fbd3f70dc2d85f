package commands

import (
	"fmt"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addStatus(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show collection sizes and review progress.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				stats, err := st.Stats()
				if err != nil {
					return err
				}
				snap := st.Snapshot()
				today := st.TodayTasks()
				open := 0
				for _, t := range today {
					if !t.IsCompleted {
						open++
					}
				}

				tw := newTable(s.out)
				fmt.Fprintf(tw, "\tTOTAL\tDUE\tMASTERED\n")
				fmt.Fprintf(tw, "words\t%d\t%d\t%d\n", stats.Words.Total, stats.Words.Due, stats.Words.Mastered)
				fmt.Fprintf(tw, "notes\t%d\t%d\t%d\n", stats.KnowledgePoints.Total, stats.KnowledgePoints.Due, stats.KnowledgePoints.Mastered)
				fmt.Fprintf(tw, "categories\t%d\t\t\n", len(snap.Categories))
				fmt.Fprintf(tw, "tasks today\t%d\t%d open\t\n", len(today), open)
				if err := tw.Flush(); err != nil {
					return err
				}

				fmt.Fprintln(s.out)
				tw = newTable(s.out)
				fmt.Fprintf(tw, "STAGE\tWORDS\tNOTES\n")
				for stage := domain.StageLearned; stage <= domain.StageMastered; stage++ {
					fmt.Fprintf(tw, "%s\t%d\t%d\n", stage, stats.Words.ByStage[stage], stats.KnowledgePoints.ByStage[stage])
				}
				return tw.Flush()
			})
		},
	}
	topLevel.AddCommand(cmd)
}
