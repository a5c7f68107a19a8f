// Command replaydb indexes replay files into a SQLite catalog.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robert-malhotra/go-twreplay/internal/cmd/replaydb"
	"github.com/robert-malhotra/go-twreplay/internal/config"
)

func main() {
	cfg, err := replaydb.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix("[REPLAYDB] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := replaydb.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("%s: %v", cfg.Command, err)
	}
}
