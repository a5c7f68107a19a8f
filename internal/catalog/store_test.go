package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/robert-malhotra/go-twreplay/project"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func sampleEntry(fp, game string, recorded int64) Entry {
	return Entry{
		Fingerprint:      fp,
		Path:             "/replays/" + fp + ".replay",
		Size:             1024,
		Variant:          "ABCF",
		Compression:      "gzip",
		RecordedAt:       time.Unix(recorded, 0).UTC(),
		Layout:           "shogun2",
		GameTitle:        "Shogun2:TotalWar(1.1.0)(Build(3821) Final) Changelist(299841)",
		GameName:         game,
		GameVersion:      "1.1.0",
		BuildNumber:      3821,
		ChangelistNumber: 299841,
		MapID:            "kyoto_siege",
		MapIDSub:         "gates_of_kyoto",
		Teams: [][]project.Player{
			{{Name: "Takeda", RegionID: "takeda"}, {Name: "Uesugi", RegionID: "uesugi"}},
			{{Name: "Oda", RegionID: "oda"}},
		},
		IndexedAt: time.UnixMilli(1700000000123).UTC(),
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenReappliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	input := sampleEntry("00000000deadbeef", "Shogun2", 1300000000)

	if err := store.Put(ctx, input); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, input.Fingerprint)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, input) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, input)
	}
}

func TestPutDuplicate(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	e := sampleEntry("0000000000000001", "Shogun2", 1)

	if err := store.Put(ctx, e); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, e); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from delete, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	entries := []Entry{
		sampleEntry("a", "Shogun2", 100),
		sampleEntry("b", "Shogun2", 300),
		sampleEntry("c", "Napoleon", 200),
	}
	entries[2].Teams = [][]project.Player{{{Name: "Wellington", RegionID: "britain"}}}
	for _, e := range entries {
		if err := store.Put(ctx, e); err != nil {
			t.Fatalf("put %s: %v", e.Fingerprint, err)
		}
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all", Query{}, []string{"b", "c", "a"}},
		{"game", Query{GameName: "Shogun2"}, []string{"b", "a"}},
		{"player", Query{Player: "Wellington"}, []string{"c"}},
		{"limit", Query{Limit: 1}, []string{"b"}},
		{"no match", Query{GameName: "Rome2"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var fps []string
			for _, e := range got {
				fps = append(fps, e.Fingerprint)
			}
			if !reflect.DeepEqual(fps, tt.want) {
				t.Fatalf("fingerprints = %v, want %v", fps, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	e := sampleEntry("0000000000000002", "Shogun2", 1)
	if err := store.Put(ctx, e); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, e.Fingerprint); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, e.Fingerprint); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Players go with the replay, so the fingerprint can be indexed again.
	if err := store.Put(ctx, e); err != nil {
		t.Fatalf("re-put: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("replay"))
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d, want 16", len(a))
	}
	if a != Fingerprint([]byte("replay")) {
		t.Fatal("fingerprint is not deterministic")
	}
	if a == Fingerprint([]byte("replay2")) {
		t.Fatal("different inputs share a fingerprint")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"CREATE TABLE t (x);", "CREATE TABLE t (x);"},
		{"-- +migrate Up\nA;\n-- +migrate Down\nB;", "\nA;\n"},
		{"-- +migrate Up\nA;", "\nA;"},
	}
	for _, tt := range tests {
		if got := extractUpMigration(tt.content); got != tt.want {
			t.Errorf("extractUpMigration(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}
