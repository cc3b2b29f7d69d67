package main

import (
	"context"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/thep2p/validator-load/internal/command"
)

func main() {
	os.Exit(command.Main(context.Background(), os.Args, command.Env{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clock:  clock.New(),
	}))
}
