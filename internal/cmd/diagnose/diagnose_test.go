package diagnose

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/replaytest"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
	"github.com/robert-malhotra/go-twreplay/replay"
)

func writeReplay(t *testing.T) string {
	t.Helper()
	b := replaytest.New(header.MagicABCF)
	b.BeginRecord("root", 0)
	b.BeginRecord("BATTLE_REPLAY", 2)
	b.UTF16("Takeda")
	b.BeginArray(typecode.Uint16)
	b.W().WriteUint16(7)
	b.End()
	b.BeginRecordArray("ARMIES", 0, 1)
	b.Begin()
	b.Bool(true)
	b.End()
	b.End()
	b.End()
	b.End()

	path := filepath.Join(t.TempDir(), "battle.replay")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseConfig(t *testing.T) {
	fs := flag.NewFlagSet("diagnose", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-json", "-path", "root", "-max-depth", "9", "a.replay", "b.replay"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.JSON || cfg.Path != "root" || cfg.MaxDepth != 9 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", cfg.Files)
	}

	fs = flag.NewFlagSet("diagnose", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected usage error without files")
	}
}

func TestRunTree(t *testing.T) {
	path := writeReplay(t)
	var out bytes.Buffer
	cfg := Config{Files: []string{path}}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Variant:       ABCF",
		"Strings:       1",
		"root v0",
		"  BATTLE_REPLAY v2",
		`    0: utf16 "Takeda"`,
		"    1: uint16[] [7]",
		"    ARMIES v0 [1 elements]",
		"      0: bool true",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunJSONSubtree(t *testing.T) {
	path := writeReplay(t)
	var out bytes.Buffer
	cfg := Config{Files: []string{path}, JSON: true, Path: "root/BATTLE_REPLAY/ARMIES/0"}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	body := out.String()
	body = body[strings.Index(body, "["):]
	var nodes []map[string]any
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&nodes); err != nil {
		t.Fatalf("decode json: %v\n%s", err, body)
	}
	if len(nodes) != 1 || nodes[0]["type"] != "bool" || nodes[0]["value"] != true {
		t.Fatalf("unexpected nodes: %v", nodes)
	}
}

func TestRunReportsErrors(t *testing.T) {
	good := writeReplay(t)
	bad := filepath.Join(t.TempDir(), "bad.replay")
	if err := os.WriteFile(bad, []byte("garbage!"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := Run(context.Background(), Config{Files: []string{bad, good}}, &out)
	if err == nil {
		t.Fatal("expected error for bad file")
	}
	if !strings.Contains(out.String(), "ERROR:") || !strings.Contains(out.String(), "BATTLE_REPLAY") {
		t.Fatalf("expected error line and second file output:\n%s", out.String())
	}
}

func TestValueJSON(t *testing.T) {
	tests := []struct {
		v    replay.Value
		want any
	}{
		{replay.Float32Value(float32(math.Inf(1))), "+Inf"},
		{replay.Float64Value(math.NaN()), "NaN"},
		{replay.Float64Value(0.5), 0.5},
		{replay.Uint32Value(3), uint32(3)},
	}
	for _, tt := range tests {
		if got := valueJSON(tt.v); got != tt.want {
			t.Errorf("valueJSON(%v) = %#v, want %#v", tt.v, got, tt.want)
		}
	}
	if _, err := json.Marshal(valueJSON(replay.Vec2Value(float32(math.NaN()), 1))); err != nil {
		t.Errorf("marshal vec2 with NaN: %v", err)
	}
}
