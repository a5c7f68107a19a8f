package replay

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/replaytest"
	"github.com/robert-malhotra/go-twreplay/internal/source"
)

func sampleReplay() []byte {
	b := replaytest.New(header.MagicABCE)
	b.BeginRecord("root", 0)
	b.ASCII("Empire: Total War 1.6 (Build 4938) Changelist: 123")
	b.End()
	return b.Bytes()
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	raw := sampleReplay()

	for _, compression := range []string{"", "gzip", "zstd", "zlib"} {
		t.Run("compression="+compression, func(t *testing.T) {
			data := raw
			if compression != "" {
				var err error
				if data, err = source.Encode(compression, raw); err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
			}
			path := filepath.Join(dir, "battle"+compression+".replay")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatal(err)
			}

			rep, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if rep.Compression != compression {
				t.Errorf("Compression = %q, want %q", rep.Compression, compression)
			}
			if rep.Variant != "ABCE" || rep.Root() == nil {
				t.Errorf("Open = %+v", rep)
			}

			rep, err = Read(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if rep.Compression != compression || rep.Root() == nil {
				t.Errorf("Read = %+v", rep)
			}
		})
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.replay")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want ErrNotExist", err)
	}

	path := filepath.Join(dir, "bad.replay")
	if err := os.WriteFile(path, []byte("not a replay file"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, ErrUnsupportedFileFormat) {
		t.Errorf("Open(bad) error = %v, want ErrUnsupportedFileFormat", err)
	}
	if !IsDecodeError(err) {
		t.Errorf("Open(bad) error %v does not carry a DecodeError", err)
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &DecodeError{Phase: PhaseNodes, Offset: 42, Code: 0x99, Err: ErrUnsupportedTypeCode}
	if got, want := err.Error(), "replay: nodes at offset 42 (code 0x99): unsupported type code"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = &DecodeError{Phase: PhaseFooter, Offset: 7, Code: NoCode, Err: ErrCorruptFooter}
	if got, want := err.Error(), "replay: footer at offset 7: corrupt footer"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
