package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ammmze/truenas-openapi/cmd/truenas-openapi/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
