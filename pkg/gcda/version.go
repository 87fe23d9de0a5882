package gcda

import (
	"encoding/binary"
	"fmt"
)

// The format revision is packed into a single word: an ASCII '*' in the
// least significant byte, then the minor ones digit, the minor tens digit,
// and the major in the most significant byte (a digit, or a letter from
// 'A' upward once majors outgrew one digit). Where the '*' lands in the
// raw stream fixes the byte order for the whole packet.

// decodeVersionWord interprets the first four raw bytes of a packet and
// returns the revision ordinal plus the detected byte order.
func decodeVersionWord(raw [4]byte) (uint32, binary.ByteOrder, error) {
	var ones, tens, major byte
	var order binary.ByteOrder
	switch {
	case raw[0] == '*':
		order = binary.LittleEndian
		ones, tens, major = raw[1], raw[2], raw[3]
	case raw[3] == '*':
		order = binary.BigEndian
		ones, tens, major = raw[2], raw[1], raw[0]
	default:
		return 0, nil, fmt.Errorf("%w: %q has no revision marker", ErrBadVersion, raw[:])
	}

	if major >= 'A' {
		if tens < '0' || ones < '0' {
			return 0, nil, fmt.Errorf("%w: %q", ErrBadVersion, raw[:])
		}
		return 100*uint32(major-'A') + 10*uint32(tens-'0') + uint32(ones-'0'), order, nil
	}
	if major < '0' || ones < '0' {
		return 0, nil, fmt.Errorf("%w: %q", ErrBadVersion, raw[:])
	}
	return 10*uint32(major-'0') + uint32(ones-'0'), order, nil
}

// versionWord packs a revision ordinal back into word form. The result is
// the logical word value; the stream byte order is applied when it is
// written out.
func versionWord(ordinal uint32) (uint32, error) {
	var ones, tens, major byte
	switch {
	case ordinal < 100:
		major = '0' + byte(ordinal/10)
		tens = '0'
		ones = '0' + byte(ordinal%10)
	case ordinal < 2600:
		major = 'A' + byte(ordinal/100)
		tens = '0' + byte(ordinal/10%10)
		ones = '0' + byte(ordinal%10)
	default:
		return 0, fmt.Errorf("%w: ordinal %d is not representable", ErrBadVersion, ordinal)
	}
	return uint32('*') | uint32(ones)<<8 | uint32(tens)<<16 | uint32(major)<<24, nil
}
