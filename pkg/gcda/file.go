package gcda

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// graphMagicWord reads "gcno". A graph file handed to this package is the
// most common caller mistake, so it gets its own message.
const graphMagicWord uint32 = 0x67636e6f

// DecodeFile decodes a whole .gcda file image: the magic word, in either
// byte order, followed by one packet.
func DecodeFile(data []byte) (*Packet, error) {
	if len(data) < bytesPerWord {
		return nil, fmt.Errorf("%w: file shorter than its magic word", ErrUnexpectedEnd)
	}
	le := binary.LittleEndian.Uint32(data)
	be := binary.BigEndian.Uint32(data)
	switch {
	case le == magicWord || be == magicWord:
	case le == graphMagicWord || be == graphMagicWord:
		return nil, fmt.Errorf("%w: graph (.gcno) file where counter data was expected", ErrInvalidMagic)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, data[:bytesPerWord])
	}
	return Decode(data[bytesPerWord:])
}

// EncodeFile is the inverse of DecodeFile: the magic word in the packet's
// byte order followed by the encoded packet.
func EncodeFile(p *Packet) ([]byte, error) {
	body, err := Encode(p)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, bytesPerWord+len(body))
	out = p.byteOrder().AppendUint32(out, magicWord)
	return append(out, body...), nil
}

// Open decodes the .gcda file at path. The file is mapped read-only where
// mmap is available and read conventionally otherwise. The returned Packet
// never aliases the mapping, so nothing needs to be closed afterwards.
func Open(path string) (*Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("gcda: %s: file too large to index", path)
	}
	size := int(size64)
	if size < bytesPerWord {
		return nil, fmt.Errorf("%w: %s is shorter than its magic word", ErrUnexpectedEnd, path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		defer func() { _ = unix.Munmap(data) }()
		return DecodeFile(data)
	}

	// Fallback path that does not require mmap support.
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return DecodeFile(data)
}

// OpenReaderAt decodes a .gcda image from a random-access reader without
// mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*Packet, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("gcda: implausible input size %d", size)
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return DecodeFile(data)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
