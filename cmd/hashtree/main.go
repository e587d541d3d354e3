// Command hashtree builds Merkle trees over lists of strings
// and produces and checks inclusion and consistency proofs.
//
// Exit status is 0 for a positive result, 1 for a negative one
// (leaf not found, trees inconsistent, proof rejected),
// and 2 when the command could not run.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
