package commands

import (
	"fmt"
	"strings"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
)

func addCategories(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage the category outline.",
	}
	addCategoriesList(cmd, o)
	addCategoriesAdd(cmd, o)
	addCategoriesMove(cmd, o)
	addCategoriesDelete(cmd, o)
	topLevel.AddCommand(cmd)
}

func addCategoriesList(parent *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the outline with note counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				tw := newTable(s.out)
				fmt.Fprintf(tw, "NAME\tNOTES\tID\n")
				for _, n := range st.Outline().Flatten() {
					fmt.Fprintf(tw, "%s%s\t%d\t%s\n",
						strings.Repeat("  ", n.Depth), n.Category.Name, st.CategoryUsage(n.Category.ID), n.Category.ID)
				}
				return tw.Flush()
			})
		},
	}
	parent.AddCommand(cmd)
}

func addCategoriesAdd(parent *cobra.Command, o *rootOptions) {
	var parentID string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := domain.Category{Name: args[0]}
			if parentID != "" {
				c.ParentID = domain.Ref(parentID)
			}
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				added, err := st.AddCategory(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "added %s (%s)\n", st.Outline().ResolvePath(added.ID), added.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent category id.")
	parent.AddCommand(cmd)
}

func addCategoriesMove(parent *cobra.Command, o *rootOptions) {
	var (
		parentID string
		root     bool
		name     string
	)
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Rename a category or give it a new parent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				c, ok := st.Outline().Get(args[0])
				if !ok {
					return fmt.Errorf("%w %q", store.ErrCategoryNotFound, args[0])
				}
				if name != "" {
					c.Name = name
				}
				switch {
				case root:
					c.ParentID = nil
				case parentID != "":
					c.ParentID = domain.Ref(parentID)
				}
				if _, err := st.UpdateCategory(c); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "now %s\n", st.Outline().ResolvePath(c.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "New parent category id.")
	cmd.Flags().BoolVar(&root, "root", false, "Make the category a root.")
	cmd.Flags().StringVar(&name, "name", "", "New name.")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")
	parent.AddCommand(cmd)
}

func addCategoriesDelete(parent *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an empty category without subcategories.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, o, func(s *session, st *store.Store) error {
				if err := st.CanDeleteCategory(args[0]); err != nil {
					return err
				}
				st.DeleteCategory(args[0])
				fmt.Fprintf(s.out, "deleted %s\n", args[0])
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}
