package gcda

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestVersionWordRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ordinal := range []uint32{0, 9, 40, 46, 47, 82, 90, 99, 100, 113, 130, 2599} {
		word, err := versionWord(ordinal)
		if err != nil {
			t.Fatalf("versionWord(%d): %v", ordinal, err)
		}
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], word)
		got, order, err := decodeVersionWord(raw)
		if err != nil {
			t.Fatalf("decodeVersionWord(%d): %v", ordinal, err)
		}
		if got != ordinal {
			t.Fatalf("ordinal round-trip: got %d want %d", got, ordinal)
		}
		if order != binary.LittleEndian {
			t.Fatalf("ordinal %d: expected little-endian detection", ordinal)
		}
	}
}

func TestVersionWordKnownEncodings(t *testing.T) {
	t.Parallel()

	// GCC 4.7 packs as '*','7','0','4' in stream order on little-endian
	// producers; two-digit majors switch the high byte to a letter.
	cases := []struct {
		raw     [4]byte
		ordinal uint32
	}{
		{[4]byte{'*', '7', '0', '4'}, 47},
		{[4]byte{'*', '2', '0', '8'}, 82},
		{[4]byte{'*', '3', '1', 'B'}, 113},
		{[4]byte{'*', '0', '3', 'B'}, 130},
	}
	for _, tc := range cases {
		got, _, err := decodeVersionWord(tc.raw)
		if err != nil {
			t.Fatalf("decodeVersionWord(%q): %v", tc.raw[:], err)
		}
		if got != tc.ordinal {
			t.Fatalf("decodeVersionWord(%q): got %d want %d", tc.raw[:], got, tc.ordinal)
		}
	}
}

func TestVersionWordBigEndian(t *testing.T) {
	t.Parallel()

	word, err := versionWord(47)
	if err != nil {
		t.Fatalf("versionWord: %v", err)
	}
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], word)

	got, order, err := decodeVersionWord(raw)
	if err != nil {
		t.Fatalf("decodeVersionWord: %v", err)
	}
	if got != 47 {
		t.Fatalf("ordinal: got %d want 47", got)
	}
	if order != binary.BigEndian {
		t.Fatalf("expected big-endian detection")
	}
}

func TestVersionWordErrors(t *testing.T) {
	t.Parallel()

	bad := [][4]byte{
		{'x', '7', '0', '4'},  // no revision marker
		{'*', '7', '0', ' '},  // major below '0'
		{'*', ' ', '0', '4'},  // ones below '0'
		{'*', '3', ' ', 'B'},  // tens below '0' in the letter form
	}
	for _, raw := range bad {
		if _, _, err := decodeVersionWord(raw); !errors.Is(err, ErrBadVersion) {
			t.Fatalf("decodeVersionWord(%q): got %v, want ErrBadVersion", raw[:], err)
		}
	}

	if _, err := versionWord(2600); !errors.Is(err, ErrBadVersion) {
		t.Fatalf("versionWord(2600): got %v, want ErrBadVersion", err)
	}
}
