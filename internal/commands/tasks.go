package commands

import (
	"fmt"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addTasks(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage today's tasks on the urgent/important matrix.",
	}
	addTasksList(cmd, o)
	addTasksAdd(cmd, o)
	addTaskToggle(cmd, o, "done", "Toggle completion.", (*store.Store).ToggleTaskCompleted)
	addTaskToggle(cmd, o, "carry", "Toggle carrying the task over to tomorrow.", (*store.Store).ToggleTaskCarryOver)
	addTaskToggle(cmd, o, "long-term", "Toggle keeping the task until it is completed.", (*store.Store).ToggleTaskLongTerm)
	addTasksDelete(cmd, o)
	topLevel.AddCommand(cmd)
}

func taskMarks(t domain.Task) string {
	m := "[ ]"
	if t.IsCompleted {
		m = "[x]"
	}
	if t.IsLongTerm {
		m += " long-term"
	} else if t.IsCarriedOver {
		m += " carry"
	}
	return m
}

func addTasksList(parent *cobra.Command, o *rootOptions) {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's tasks grouped by quadrant.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				tasks := st.TodayTasks()
				if all {
					tasks = st.Tasks()
				}
				tw := newTable(s.out)
				for _, q := range domain.Quadrants {
					fmt.Fprintf(tw, "%s\t\t\n", q.Label())
					for _, t := range tasks {
						if t.Quadrant != q {
							continue
						}
						fmt.Fprintf(tw, "  %s %s\t%s\t%s\n", taskMarks(t), t.Text, formatDate(t.CreatedAt, st.Location()), t.ID)
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include tasks from other days.")
	parent.AddCommand(cmd)
}

func addTasksAdd(parent *cobra.Command, o *rootOptions) {
	var (
		quadrant string
		longTerm bool
	)
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task for today.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := domain.Task{Text: args[0], Quadrant: domain.TaskQuadrant(quadrant), IsLongTerm: longTerm}
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				added, err := st.AddTask(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "added %s (%s) to %s\n", added.Text, added.ID, added.Quadrant.Label())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&quadrant, "quadrant", "q", string(domain.QuadrantUrgentImportant),
		"urgent-important, important-not-urgent, urgent-not-important or not-important-not-urgent.")
	cmd.Flags().BoolVar(&longTerm, "long-term", false, "Keep the task until it is completed.")
	parent.AddCommand(cmd)
}

func addTaskToggle(parent *cobra.Command, o *rootOptions, use, short string, toggle func(*store.Store, string) (domain.Task, error)) {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				t, err := toggle(st, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%s %s\n", taskMarks(t), t.Text)
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}

func addTasksDelete(parent *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if !st.DeleteTask(args[0]) {
					return fmt.Errorf("%w %q", store.ErrTaskNotFound, args[0])
				}
				fmt.Fprintf(s.out, "deleted %s\n", args[0])
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}
