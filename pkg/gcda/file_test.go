package gcda

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func testPacket() *Packet {
	return &Packet{
		Version:  113,
		Checksum: testChecksum,
		Entries: []Entry{
			&FunctionBlock{Ident: 1, LineChecksum: 10, CFGChecksum: 100, Groups: []ArcGroup{
				{Counters: []uint64{3, 0, 1 << 36}},
			}},
			&ObjectSummary{Runs: 1, Reserved: 0},
		},
	}
}

func TestFileImageRoundTrip(t *testing.T) {
	t.Parallel()

	pkt := testPacket()
	image, err := EncodeFile(pkt)
	if err != nil {
		t.Fatalf("encode file: %v", err)
	}
	// Little-endian images start with the reversed magic.
	if !bytes.HasPrefix(image, []byte("adcg")) {
		t.Fatalf("image prefix: %q", image[:4])
	}

	got, err := DecodeFile(image)
	if err != nil {
		t.Fatalf("decode file: %v", err)
	}
	if !reflect.DeepEqual(got, pkt) {
		t.Fatalf("file round trip mismatch:\n got %+v\nwant %+v", got, pkt)
	}
}

func TestDecodeFileRejectsForeignMagic(t *testing.T) {
	t.Parallel()

	if _, err := DecodeFile([]byte("MZ\x90\x00rest")); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("foreign magic: got %v, want ErrInvalidMagic", err)
	}
	if _, err := DecodeFile([]byte{}); !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("empty file: got %v, want ErrUnexpectedEnd", err)
	}

	// A graph file is called out explicitly.
	_, err := DecodeFile([]byte("oncg\x00\x00\x00\x00"))
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("graph magic: got %v, want ErrInvalidMagic", err)
	}
	if !strings.Contains(err.Error(), "gcno") {
		t.Fatalf("graph magic error should name the .gcno format: %v", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	t.Parallel()

	pkt := testPacket()
	image, err := EncodeFile(pkt)
	if err != nil {
		t.Fatalf("encode file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "unit.gcda")
	if err := os.WriteFile(path, image, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !reflect.DeepEqual(got, pkt) {
		t.Fatalf("open mismatch:\n got %+v\nwant %+v", got, pkt)
	}
}

func TestOpenReaderAt(t *testing.T) {
	t.Parallel()

	pkt := testPacket()
	image, err := EncodeFile(pkt)
	if err != nil {
		t.Fatalf("encode file: %v", err)
	}

	got, err := OpenReaderAt(bytes.NewReader(image), int64(len(image)))
	if err != nil {
		t.Fatalf("open readerat: %v", err)
	}
	if !reflect.DeepEqual(got, pkt) {
		t.Fatalf("readerat mismatch")
	}
}

func TestOpenTinyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiny.gcda")
	if err := os.WriteFile(path, []byte("ad"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("tiny file: got %v, want ErrUnexpectedEnd", err)
	}
}
