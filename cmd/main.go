package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"polysentinel/internal/bootstrap"
)

func main() {
	fixturePath := flag.String("fixture", "", "JSON file with trades and composite score results to replay")
	serve := flag.Bool("serve", false, "Keep running after replay (metrics endpoint stays up) until SIGINT/SIGTERM")
	flag.Parse()

	c := bootstrap.NewContainer()
	c.MustInit()

	if err := c.Start(); err != nil {
		c.Log.Errorw("Startup failed", "error", err)
		c.Shutdown()
		os.Exit(1)
	}

	exitCode := 0
	if *fixturePath != "" {
		if err := runFixture(c.Context, c, *fixturePath); err != nil {
			c.Log.Errorw("Replay failed", "fixture", *fixturePath, "error", err)
			exitCode = 1
		}
	}

	if *serve {
		waitForShutdown(c.Context)
	}

	c.Shutdown()
	os.Exit(exitCode)
}

func runFixture(ctx context.Context, c *bootstrap.Container, path string) error {
	f, err := loadFixture(path)
	if err != nil {
		return err
	}

	rep := replay(ctx, c.Services.Selection, c.Services.Correlation, f, c.Log)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// waitForShutdown blocks until a shutdown signal arrives or ctx is cancelled
func waitForShutdown(ctx context.Context) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}
}
