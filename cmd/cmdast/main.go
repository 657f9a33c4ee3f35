package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/ben-ranford/cmdast/internal/app"
	"github.com/ben-ranford/cmdast/internal/cli"
)

var exitFunc = os.Exit

func run(args []string, out io.Writer, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := app.New(errOut)
	commandLine := cli.New(runner, out, errOut)
	return commandLine.Run(ctx, args)
}

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}
