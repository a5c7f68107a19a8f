package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// replayLike is a header-shaped prefix that no filter should claim.
var replayLike = []byte{0xCE, 0xAB, 0x00, 0x00, 0, 0, 0, 0, 0x78, 0x56, 0x34, 0x12, 0x10, 0, 0, 0}

func TestDetectRaw(t *testing.T) {
	for _, magic := range []byte{0xCD, 0xCE, 0xCF, 0xCA} {
		data := append([]byte{magic, 0xAB}, replayLike[2:]...)
		if f := Detect(data); f != nil {
			t.Errorf("Detect(%x...) = %s, want nil", magic, f.Name())
		}
	}
	if f := Detect(nil); f != nil {
		t.Errorf("Detect(nil) = %s, want nil", f.Name())
	}
}

func TestRoundtrip(t *testing.T) {
	original := bytes.Repeat(replayLike, 64)

	for _, name := range []string{"gzip", "zstd", "zlib"} {
		t.Run(name, func(t *testing.T) {
			compressed, err := Encode(name, original)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			f := Detect(compressed)
			if f == nil || f.Name() != name {
				t.Fatalf("Detect = %v, want %s", f, name)
			}

			got, used, err := Decode(compressed)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if used != name {
				t.Errorf("filter = %q, want %q", used, name)
			}
			if !bytes.Equal(got, original) {
				t.Errorf("decompressed data mismatch: got %d bytes, want %d", len(got), len(original))
			}
		})
	}
}

func TestDecodeRawPassthrough(t *testing.T) {
	got, used, err := Decode(replayLike)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if used != "" {
		t.Errorf("filter = %q, want none", used)
	}
	if !bytes.Equal(got, replayLike) {
		t.Error("raw input was modified")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00, 0x01}},
		{"zstd", []byte{0x28, 0xb5, 0x2f, 0xfd, 0xff, 0xff}},
		{"zlib", []byte{0x78, 0x9c, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, used, err := Decode(tt.data)
			if err == nil {
				t.Fatal("expected error for corrupt input")
			}
			if used != tt.name {
				t.Errorf("filter = %q, want %q", used, tt.name)
			}
			if !strings.HasPrefix(err.Error(), tt.name) {
				t.Errorf("error %q not prefixed with filter name", err)
			}
		})
	}
}

func TestReadFileAndReadAll(t *testing.T) {
	compressed, err := Encode("gzip", replayLike)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "battle.replay.gz")
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		t.Fatal(err)
	}

	got, used, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if used != "gzip" || !bytes.Equal(got, replayLike) {
		t.Errorf("ReadFile = (%d bytes, %q)", len(got), used)
	}

	got, used, err = ReadAll(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if used != "gzip" || !bytes.Equal(got, replayLike) {
		t.Errorf("ReadAll = (%d bytes, %q)", len(got), used)
	}

	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.replay")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestEncodeUnknown(t *testing.T) {
	if _, err := Encode("lz4", replayLike); err == nil {
		t.Error("expected error for unknown filter")
	}
}
