// Command lumina is the command-line client for a lumina persistence
// endpoint.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/phrazzld/lumina/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.New().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
