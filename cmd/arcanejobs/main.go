package main

import (
	"context"
	"os"

	"github.com/arcanejobs/arcanejobs/cmd/arcanejobs/commands"
)

func main() {
	if err := commands.NewCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
