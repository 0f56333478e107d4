// Package main is the entry point for the parc CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/parc/cmd/parc/commands"
	"go.trai.ch/parc/internal/app"
	"go.trai.ch/parc/internal/core/domain"
	_ "go.trai.ch/parc/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...app.Option) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	components.App.Apply(opts...)

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrAnalysisFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
