// Package replaydb parses replaydb flags and indexes replays into the catalog.
package replaydb

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-twreplay/internal/catalog"
	"github.com/robert-malhotra/go-twreplay/internal/config"
	"github.com/robert-malhotra/go-twreplay/internal/source"
	"github.com/robert-malhotra/go-twreplay/internal/telemetry"
	"github.com/robert-malhotra/go-twreplay/project"
	"github.com/robert-malhotra/go-twreplay/replay"
)

const usage = "usage: replaydb [flags] index PATH [PATH ...] | list"

// Config holds replaydb command configuration.
type Config struct {
	config.Config

	Command string
	Args    []string

	// List filters.
	Game   string
	Player string
	Limit  int
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	base, err := config.Load()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Config: base}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Catalog database path")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent decodes while indexing")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum record nesting")
	fs.BoolVar(&cfg.Int64Placeholder, "int64-placeholder", cfg.Int64Placeholder, "Decode 64-bit integers as null")
	fs.StringVar(&cfg.Game, "game", "", "List only replays of this game, e.g. Shogun2")
	fs.StringVar(&cfg.Player, "player", "", "List only replays with this player")
	fs.IntVar(&cfg.Limit, "limit", 50, "Maximum replays to list; 0 lists all")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, errors.New(usage)
	}
	cfg.Command, cfg.Args = rest[0], rest[1:]
	switch cfg.Command {
	case "index":
		if len(cfg.Args) == 0 {
			return Config{}, errors.New(usage)
		}
	case "list":
	default:
		return Config{}, fmt.Errorf("unknown command %q; %s", cfg.Command, usage)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

// Run executes the configured command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	shutdown, err := telemetry.Setup(ctx, "twreplay-replaydb", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdown(ctx)

	store, err := catalog.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch cfg.Command {
	case "index":
		stats, err := Index(ctx, store, cfg, cfg.Args)
		fmt.Fprintf(out, "indexed %d, duplicates %d, failed %d\n", stats.Indexed, stats.Duplicates, stats.Failed)
		return err
	case "list":
		return List(ctx, store, cfg, out)
	}
	return errors.New(usage)
}

// Stats counts the outcome of an Index call.
type Stats struct {
	Indexed    int64
	Duplicates int64
	Failed     int64
}

// Index decodes every replay under paths and stores it. Directories are
// walked for files whose name contains ".replay". Files that fail to decode
// are logged and counted; catalog errors stop indexing.
func Index(ctx context.Context, store *catalog.Store, cfg Config, paths []string) (Stats, error) {
	files, err := collect(paths)
	if err != nil {
		return Stats{}, err
	}

	var indexed, duplicates, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, path := range files {
		path := path
		g.Go(func() error {
			err := indexFile(ctx, store, cfg, path)
			switch {
			case err == nil:
				indexed.Add(1)
			case errors.Is(err, catalog.ErrDuplicate):
				duplicates.Add(1)
			case errors.Is(err, errDecode):
				failed.Add(1)
				log.Printf("skipping %s: %v", path, err)
			default:
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	err = g.Wait()

	return Stats{
		Indexed:    indexed.Load(),
		Duplicates: duplicates.Load(),
		Failed:     failed.Load(),
	}, err
}

// errDecode marks per-file failures that do not stop indexing.
var errDecode = errors.New("decode failed")

func indexFile(ctx context.Context, store *catalog.Store, cfg Config, path string) (err error) {
	ctx, span := telemetry.StartFile(ctx, "index", path)
	defer func() { telemetry.End(span, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	data, compression, err := source.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errDecode, err)
	}
	rep, err := replay.Decode(data, cfg.DecodeOptions()...)
	if err != nil {
		return fmt.Errorf("%w: %w", errDecode, err)
	}
	rep.Compression = compression

	s, err := project.Summarize(rep)
	if err != nil {
		log.Printf("%s: no summary: %v", path, err)
		s = nil
	}

	return store.Put(ctx, catalog.NewEntry(path, data, rep, s))
}

// collect expands directories into replay files.
func collect(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path == p || strings.Contains(d.Name(), ".replay") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", p, err)
		}
	}
	return files, nil
}

// List writes the catalog entries matching the configured filters.
func List(ctx context.Context, store *catalog.Store, cfg Config, out io.Writer) error {
	entries, err := store.List(ctx, catalog.Query{GameName: cfg.Game, Player: cfg.Player, Limit: cfg.Limit})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINGERPRINT\tRECORDED\tGAME\tMAP\tTEAMS\tPATH")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Fingerprint,
			e.RecordedAt.Format("2006-01-02 15:04"),
			orDash(strings.TrimSpace(e.GameName+" "+e.GameVersion)),
			orDash(e.MapID),
			teams(e.Teams),
			e.Path,
		)
	}
	return tw.Flush()
}

func teams(ts [][]project.Player) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ts))
	for _, team := range ts {
		names := make([]string, 0, len(team))
		for _, p := range team {
			names = append(names, p.Name)
		}
		parts = append(parts, strings.Join(names, ", "))
	}
	return strings.Join(parts, " vs ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
