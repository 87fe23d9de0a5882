package gcda

import (
	"encoding/binary"
	"fmt"
)

// Object-summary record shapes. The long form's length is a literal fixed
// by the format; its payload words past the third are padding.
const (
	summaryShortWords = 2
	summaryLongWords  = 9
)

// Decode performs a single forward pass over one packet, starting at the
// format-revision word. The file magic, when present, belongs to the file
// shell (see DecodeFile).
//
// A malformed record is fatal for the whole packet: the format has no
// resynchronisation point past a corrupt length field, so no partial
// result is ever returned.
func Decode(data []byte) (*Packet, error) {
	if len(data) < 2*bytesPerWord {
		return nil, fmt.Errorf("%w: packet header needs %d bytes, have %d", ErrUnexpectedEnd, 2*bytesPerWord, len(data))
	}

	var raw [4]byte
	copy(raw[:], data)
	version, order, err := decodeVersionWord(raw)
	if err != nil {
		return nil, err
	}

	r := &wordReader{data: data, off: bytesPerWord, order: order}
	checksum, err := r.word()
	if err != nil {
		return nil, err
	}

	p := &Packet{
		Version:   version,
		Checksum:  checksum,
		BigEndian: order == binary.BigEndian,
	}

	// Counter groups attach to the most recently declared function.
	var current *FunctionBlock

	for r.remaining() > 0 {
		if r.remaining() < 2*bytesPerWord {
			// Either a lone terminator word or a torn record header.
			if r.remaining() == bytesPerWord {
				if w, _ := r.word(); w == 0 {
					return p, nil
				}
			}
			return nil, fmt.Errorf("%w: stream ends inside a record header", ErrTrailingBytes)
		}

		tag, err := r.word()
		if err != nil {
			return nil, err
		}
		if tag == 0 {
			if rem := r.remaining(); rem > 0 {
				return nil, fmt.Errorf("%w: %d bytes after stream terminator", ErrTrailingBytes, rem)
			}
			return p, nil
		}
		length, err := r.word()
		if err != nil {
			return nil, err
		}

		// Bound the declared payload before allocating anything for it.
		if int64(length) > int64(r.remainingWords()) {
			return nil, fmt.Errorf("%w: record %#08x declares %d words, %d remain",
				ErrUnexpectedEnd, tag, length, r.remainingWords())
		}

		switch tag {
		case TagFunction:
			fb, err := decodeFunction(r, length, version)
			if err != nil {
				return nil, err
			}
			if fb != nil {
				p.Entries = append(p.Entries, fb)
				current = fb
			}
		case TagCounterArcs:
			group, err := decodeArcs(r, length)
			if err != nil {
				return nil, err
			}
			// Groups seen before any function declaration are consumed
			// but kept nowhere.
			if current != nil {
				current.Groups = append(current.Groups, group)
			}
		case TagObjectSummary:
			sum, err := decodeObjectSummary(r, length)
			if err != nil {
				return nil, err
			}
			p.Entries = append(p.Entries, sum)
		default:
			// Program summaries and tags from later revisions are kept
			// verbatim for lossless round-trips.
			payload, err := r.bytes(int(length) * bytesPerWord)
			if err != nil {
				return nil, err
			}
			p.Entries = append(p.Entries, &OpaqueRecord{Tag: tag, Payload: payload})
		}
	}

	return p, nil
}

func decodeFunction(r *wordReader, length, version uint32) (*FunctionBlock, error) {
	switch {
	case length == 0:
		// A zero-length declaration marks nothing; the current function
		// stays as it was.
		return nil, nil
	case length == 2 && version < VersionCFGChecksum:
		ident, err := r.word()
		if err != nil {
			return nil, err
		}
		lineSum, err := r.word()
		if err != nil {
			return nil, err
		}
		return &FunctionBlock{Ident: ident, LineChecksum: lineSum}, nil
	case length == 3 && version >= VersionCFGChecksum:
		ident, err := r.word()
		if err != nil {
			return nil, err
		}
		lineSum, err := r.word()
		if err != nil {
			return nil, err
		}
		cfgSum, err := r.word()
		if err != nil {
			return nil, err
		}
		return &FunctionBlock{Ident: ident, LineChecksum: lineSum, CFGChecksum: cfgSum}, nil
	default:
		return nil, fmt.Errorf("%w: function record of %d words under revision %d",
			ErrInvalidLength, length, version)
	}
}

func decodeArcs(r *wordReader, length uint32) (ArcGroup, error) {
	if length%2 != 0 {
		return ArcGroup{}, fmt.Errorf("%w: arcs record of %d words cannot split into counters",
			ErrInvalidLength, length)
	}
	counters := make([]uint64, 0, length/2)
	for i := uint32(0); i < length/2; i++ {
		c, err := r.counter()
		if err != nil {
			return ArcGroup{}, err
		}
		counters = append(counters, c)
	}
	return ArcGroup{Counters: counters}, nil
}

func decodeObjectSummary(r *wordReader, length uint32) (*ObjectSummary, error) {
	if length != summaryShortWords && length != summaryLongWords {
		return nil, fmt.Errorf("%w: object summary of %d words", ErrInvalidLength, length)
	}
	runs, err := r.word()
	if err != nil {
		return nil, err
	}
	reserved, err := r.word()
	if err != nil {
		return nil, err
	}
	sum := &ObjectSummary{Runs: runs, Reserved: reserved}
	if length == summaryLongWords {
		actual, err := r.word()
		if err != nil {
			return nil, err
		}
		sum.ActualRuns = &actual
		if err := r.skipWords(summaryLongWords - 3); err != nil {
			return nil, err
		}
	}
	return sum, nil
}
