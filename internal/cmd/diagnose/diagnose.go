// Package diagnose parses diagnose flags and prints decoded replays.
package diagnose

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/robert-malhotra/go-twreplay/internal/config"
	"github.com/robert-malhotra/go-twreplay/internal/telemetry"
	"github.com/robert-malhotra/go-twreplay/project"
	"github.com/robert-malhotra/go-twreplay/replay"
)

// Config holds diagnose command configuration.
type Config struct {
	config.Config

	// Path restricts output to the subtree at this node path.
	Path string
	// JSON prints the tree as JSON instead of an indented listing.
	JSON bool
	// Summary prints the battle summary after the tree.
	Summary bool
	// Files are the replays to inspect.
	Files []string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	base, err := config.Load()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Config: base}
	fs.StringVar(&cfg.Path, "path", "", "Only print the subtree at this node path, e.g. root/BATTLE_REPLAY")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the node tree as JSON")
	fs.BoolVar(&cfg.Summary, "summary", false, "Print the battle summary")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum record nesting")
	fs.BoolVar(&cfg.Int64Placeholder, "int64-placeholder", cfg.Int64Placeholder, "Decode 64-bit integers as null")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Files = fs.Args()
	if len(cfg.Files) == 0 {
		return Config{}, errors.New("usage: diagnose [flags] FILE [FILE ...]")
	}
	return cfg, nil
}

// Run decodes each file and writes its structure to out. It keeps going
// after a failed file and returns the first error.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	shutdown, err := telemetry.Setup(ctx, "twreplay-diagnose", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdown(ctx)

	var first error
	for _, path := range cfg.Files {
		if err := diagnoseFile(ctx, cfg, path, out); err != nil {
			fmt.Fprintf(out, "ERROR: %v\n\n", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func diagnoseFile(ctx context.Context, cfg Config, path string, out io.Writer) (err error) {
	_, span := telemetry.StartFile(ctx, "diagnose", path)
	defer func() { telemetry.End(span, err) }()

	fmt.Fprintf(out, "=== Analyzing %s ===\n\n", path)

	rep, err := replay.Open(path, cfg.DecodeOptions()...)
	if err != nil {
		return err
	}

	nodes := rep.Nodes
	if cfg.Path != "" {
		if nodes, err = subtree(rep.Nodes, cfg.Path); err != nil {
			return err
		}
	}

	if cfg.JSON {
		if err := writeJSON(out, nodes); err != nil {
			return err
		}
	} else {
		writeHeader(out, rep)
		if err := writeTree(out, nodes); err != nil {
			return err
		}
	}

	if cfg.Summary {
		s, err := project.Summarize(rep)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		writeSummary(out, s)
	}
	fmt.Fprintln(out)
	return nil
}

// subtree returns the node at path as a one-element list, or the children of
// a record array element.
func subtree(ns replay.Nodes, path string) (replay.Nodes, error) {
	n, err := replay.Find(ns, path)
	if err == nil {
		return replay.Nodes{n}, nil
	}
	if !errors.Is(err, replay.ErrPathNotFound) {
		return nil, err
	}
	return replay.FindChildren(ns, path)
}

func writeHeader(out io.Writer, rep *replay.Replay) {
	h := rep.Header
	fmt.Fprintf(out, "Variant:       %s\n", rep.Variant)
	if rep.Compression != "" {
		fmt.Fprintf(out, "Compression:   %s\n", rep.Compression)
	}
	fmt.Fprintf(out, "Timestamp:     %s\n", h.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Node region:   [%d, %d)\n", h.NodesStart, h.NodesEnd())
	fmt.Fprintf(out, "Tags:          %d\n", len(rep.Footer.Tags))
	if rep.Footer.Strings != nil {
		fmt.Fprintf(out, "Strings:       %d\n", len(rep.Footer.Strings))
	}
	if rep.Footer.Trailing > 0 {
		fmt.Fprintf(out, "Trailing:      %d bytes\n", rep.Footer.Trailing)
	}
	fmt.Fprintln(out)
}

// writeTree prints one line per node, indented by depth.
func writeTree(out io.Writer, ns replay.Nodes) error {
	return replay.Walk(ns, func(path string, n replay.Node) error {
		depth := len(replay.SplitPath(path)) - 1
		indent := strings.Repeat("  ", depth)
		name := path[strings.LastIndexByte(path, '/')+1:]

		switch n := n.(type) {
		case *replay.Record:
			fmt.Fprintf(out, "%s%s v%d @%d\n", indent, name, n.Version, n.Pos)
		case *replay.RecordArray:
			fmt.Fprintf(out, "%s%s v%d [%d elements] @%d\n", indent, name, n.Version, len(n.Elements), n.Pos)
		case *replay.Array:
			fmt.Fprintf(out, "%s%s: %s %v\n", indent, name, codeName(n.Code), n.Values)
		case *replay.Scalar:
			fmt.Fprintf(out, "%s%s: %s %s\n", indent, name, codeName(n.Code), n.Value)
		}
		return nil
	})
}

func writeSummary(out io.Writer, s *project.Summary) {
	fmt.Fprintf(out, "\nGame:          %s %s (build %d, changelist %d)\n",
		s.GameName, s.GameVersion, s.BuildNumber, s.ChangelistNumber)
	fmt.Fprintf(out, "Layout:        %s\n", s.Layout)
	fmt.Fprintf(out, "Map:           %s (%s)\n", s.BattlefieldMapID, s.BattlefieldMapIDSub)
	for i, team := range s.Teams {
		fmt.Fprintf(out, "Team %d:\n", i+1)
		for _, p := range team {
			fmt.Fprintf(out, "  %s [%s]\n", p.Name, p.RegionID)
		}
	}
}
