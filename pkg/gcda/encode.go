package gcda

import (
	"encoding/binary"
	"fmt"
)

// wordWriter is the forward-pass inverse of wordReader.
type wordWriter struct {
	buf   []byte
	order binary.AppendByteOrder
}

func (w *wordWriter) word(v uint32) {
	w.buf = w.order.AppendUint32(w.buf, v)
}

// counter writes a 64-bit execution count: low word first, then high.
func (w *wordWriter) counter(v uint64) {
	w.word(uint32(v))
	w.word(uint32(v >> 32))
}

func (w *wordWriter) raw(p []byte) { w.buf = append(w.buf, p...) }

func (w *wordWriter) header(tag, length uint32) {
	w.word(tag)
	w.word(length)
}

func (p *Packet) byteOrder() binary.AppendByteOrder {
	if p.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Encode serialises the packet in a single forward pass. Decoding the
// result yields a Packet equal to p, opaque payloads included.
//
// Function-record shape follows p.Version: below VersionCFGChecksum the
// CFGChecksum field has no wire representation and is not written.
func Encode(p *Packet) ([]byte, error) {
	ver, err := versionWord(p.Version)
	if err != nil {
		return nil, err
	}
	w := &wordWriter{order: p.byteOrder()}
	w.word(ver)
	w.word(p.Checksum)

	for _, e := range p.Entries {
		switch rec := e.(type) {
		case *FunctionBlock:
			if p.Version >= VersionCFGChecksum {
				w.header(TagFunction, 3)
				w.word(rec.Ident)
				w.word(rec.LineChecksum)
				w.word(rec.CFGChecksum)
			} else {
				w.header(TagFunction, 2)
				w.word(rec.Ident)
				w.word(rec.LineChecksum)
			}
			for _, g := range rec.Groups {
				w.header(TagCounterArcs, uint32(2*len(g.Counters)))
				for _, c := range g.Counters {
					w.counter(c)
				}
			}
		case *ObjectSummary:
			if rec.ActualRuns != nil {
				w.header(TagObjectSummary, summaryLongWords)
				w.word(rec.Runs)
				w.word(rec.Reserved)
				w.word(*rec.ActualRuns)
				for i := 0; i < summaryLongWords-3; i++ {
					w.word(0)
				}
			} else {
				w.header(TagObjectSummary, summaryShortWords)
				w.word(rec.Runs)
				w.word(rec.Reserved)
			}
		case *OpaqueRecord:
			switch rec.Tag {
			case 0, TagFunction, TagCounterArcs, TagObjectSummary:
				return nil, fmt.Errorf("gcda: opaque record carries structured tag %#08x", rec.Tag)
			}
			if len(rec.Payload)%bytesPerWord != 0 {
				return nil, fmt.Errorf("%w: opaque record %#08x payload of %d bytes is not word aligned",
					ErrInvalidLength, rec.Tag, len(rec.Payload))
			}
			w.header(rec.Tag, uint32(len(rec.Payload)/bytesPerWord))
			w.raw(rec.Payload)
		default:
			return nil, fmt.Errorf("gcda: unencodable entry type %T", e)
		}
	}
	return w.buf, nil
}
