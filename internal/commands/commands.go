// Package commands implements the lumina command-line client. Every command
// that touches the knowledge base loads the full snapshot from the
// persistence endpoint, mutates it through the domain store and flushes the
// debounced save before exiting.
package commands

import (
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	endpoint   string
	stateDir   string
	logLevel   string
}

// New builds the root command.
func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lumina",
		Short: "Personal knowledge base: vocabulary, notes, daily tasks and spaced review.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&o.configFile, "config", "",
		"Config file (default: ./config.yaml or ~/.lumina/config.yaml).")
	cmd.PersistentFlags().StringVar(&o.endpoint, "endpoint", "",
		"Persistence endpoint URL, overrides client.endpoint.")
	cmd.PersistentFlags().StringVar(&o.stateDir, "state-dir", "",
		"Directory for local state, overrides client.state_dir.")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn",
		"Log level written to stderr: debug, info, warn or error.")

	AddCommands(cmd, o)
	return cmd
}

// AddCommands registers the subcommands on topLevel.
func AddCommands(topLevel *cobra.Command, o *rootOptions) {
	addStatus(topLevel, o)
	addWords(topLevel, o)
	addNotes(topLevel, o)
	addCategories(topLevel, o)
	addTasks(topLevel, o)
	addReview(topLevel, o)
	addExport(topLevel, o)
	addImport(topLevel, o)
	addClear(topLevel, o)
	addHistory(topLevel, o)
	addLookup(topLevel, o)
}
