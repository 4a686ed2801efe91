// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command logreplay resends client errors left in a pending queue file.
//
//	logreplay -queue pending-errors.json -url http://localhost:3000/api/log-error
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/mentoria/reporter"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("logreplay", flag.ContinueOnError)
	queuePath := fs.String("queue", "pending-errors.json", "Pending queue file")
	endpoint := fs.String("url", "http://localhost:3000/api/log-error", "Log-error endpoint")
	timeout := fs.Duration("timeout", 10*time.Second, "Per-request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	info, err := os.Stat(*queuePath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no pending queue", "path", *queuePath)
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := reporter.New(*endpoint, reporter.Options{
		Client: &http.Client{Timeout: *timeout},
		Queue:  reporter.NewFileQueue(*queuePath),
	})

	slog.Info("replaying pending client errors", "path", *queuePath, "size", humanize.Bytes(uint64(info.Size())))

	sent, remaining, err := r.Flush(ctx)
	if err != nil {
		return fmt.Errorf("flush %s: %w", *queuePath, err)
	}

	slog.Info("replay finished", "sent", sent, "remaining", remaining)
	if remaining > 0 {
		return fmt.Errorf("%d entries could not be delivered", remaining)
	}
	return nil
}
