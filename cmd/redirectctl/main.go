// Package main provides redirectctl, the terminal client of the redirects API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"redirector/internal/cli"
)

func main() {
	run()
}

// run exits with the code of the command once the signal context is released.
func run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Stdout, os.Stderr, os.Args)
	stop()
	os.Exit(code)
}
