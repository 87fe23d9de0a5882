package gcda

import (
	"encoding/binary"
	"fmt"
)

// wordReader is a forward-only cursor over packet bytes. Every read is a
// whole word in the packet's byte order.
type wordReader struct {
	data  []byte
	off   int
	order binary.ByteOrder
}

func (r *wordReader) remaining() int { return len(r.data) - r.off }

func (r *wordReader) remainingWords() int { return r.remaining() / bytesPerWord }

func (r *wordReader) word() (uint32, error) {
	if r.remaining() < bytesPerWord {
		return 0, fmt.Errorf("%w: need %d bytes for a word, have %d", ErrUnexpectedEnd, bytesPerWord, r.remaining())
	}
	v := r.order.Uint32(r.data[r.off:])
	r.off += bytesPerWord
	return v, nil
}

// counter reads a 64-bit execution count: low word first, then high.
func (r *wordReader) counter() (uint64, error) {
	low, err := r.word()
	if err != nil {
		return 0, err
	}
	high, err := r.word()
	if err != nil {
		return 0, err
	}
	return uint64(high)<<32 | uint64(low), nil
}

// bytes consumes n raw bytes and returns a copy, so results never alias
// the (possibly memory-mapped) input.
func (r *wordReader) bytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEnd, n, r.remaining())
	}
	out := make([]byte, n)
	copy(out, r.data[r.off:])
	r.off += n
	return out, nil
}

func (r *wordReader) skipWords(n int) error {
	byteLen := n * bytesPerWord
	if r.remaining() < byteLen {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEnd, byteLen, r.remaining())
	}
	r.off += byteLen
	return nil
}
