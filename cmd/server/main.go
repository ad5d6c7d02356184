package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mani1234567sk/Frin-Backend/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	// no subcommand means serve
	if len(os.Args) == 1 {
		cmd.SetArgs([]string{"serve"})
	}
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
