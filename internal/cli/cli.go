package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ben-ranford/cmdast/internal/app"
)

type Runner interface {
	Execute(ctx context.Context, req app.Request) (string, error)
}

type CLI struct {
	Runner Runner
	Out    io.Writer
	Err    io.Writer
}

func New(runner Runner, out io.Writer, errOut io.Writer) *CLI {
	return &CLI{
		Runner: runner,
		Out:    out,
		Err:    errOut,
	}
}

// Run returns 0 on success, 1 when the request or writing its output fails and
// 2 for usage errors.
func (c *CLI) Run(ctx context.Context, args []string) int {
	req, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, ErrHelpRequested) {
			if _, err := fmt.Fprint(c.Out, Usage()); err != nil {
				return 1
			}
			return 0
		}
		if _, err := fmt.Fprintf(c.Err, "error: %v\n\n", err); err != nil {
			return 1
		}
		if _, err := fmt.Fprint(c.Err, Usage()); err != nil {
			return 1
		}
		return 2
	}

	output, runErr := c.Runner.Execute(ctx, req)
	if output != "" {
		if !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		if _, err := fmt.Fprint(c.Out, output); err != nil {
			return 1
		}
	}

	if runErr != nil {
		_, _ = fmt.Fprintf(c.Err, "error: %v\n", runErr)
		return 1
	}
	return 0
}
