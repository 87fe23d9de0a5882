package gcda

// Packet is the fully decoded contents of one coverage-counter stream.
// It owns every child entity; nothing inside a Packet is shared or cyclic.
// A decoded Packet is read-only.
type Packet struct {
	// Version is the format-revision ordinal. It governs the layout of
	// every function record in the packet.
	Version uint32

	// Checksum ties the packet to its companion graph file. It is carried
	// through unverified.
	Checksum uint32

	// BigEndian records the byte order the packet was decoded from, so
	// Encode reproduces it. The zero value is little-endian, the order
	// every mainstream producer emits.
	BigEndian bool

	// Entries holds the top-level records in declaration order.
	Entries []Entry
}

// Entry is one top-level record of a packet: a *FunctionBlock, an
// *ObjectSummary, or an *OpaqueRecord.
type Entry interface {
	recordTag() uint32
}

// FunctionBlock is a function declaration together with the counter groups
// that followed it before the next function boundary.
type FunctionBlock struct {
	Ident        uint32
	LineChecksum uint32

	// CFGChecksum is meaningful only when the packet version is at least
	// VersionCFGChecksum; earlier revisions neither carry nor encode it.
	CFGChecksum uint32

	Groups []ArcGroup
}

func (*FunctionBlock) recordTag() uint32 { return TagFunction }

// ArcGroup is one counter-array record: an ordered run of 64-bit execution
// counts for the arcs of its owning function.
type ArcGroup struct {
	Counters []uint64
}

// ObjectSummary is a per-object run-count summary.
type ObjectSummary struct {
	Runs     uint32
	Reserved uint32

	// ActualRuns is present only in the long-form summary record.
	ActualRuns *uint32
}

func (*ObjectSummary) recordTag() uint32 { return TagObjectSummary }

// OpaqueRecord preserves the raw payload of a program summary or any
// unrecognised record type. Payload length is a whole number of words.
type OpaqueRecord struct {
	Tag     uint32
	Payload []byte
}

func (o *OpaqueRecord) recordTag() uint32 { return o.Tag }

// Functions returns the packet's function blocks in declaration order.
func (p *Packet) Functions() []*FunctionBlock {
	var fns []*FunctionBlock
	for _, e := range p.Entries {
		if fb, ok := e.(*FunctionBlock); ok {
			fns = append(fns, fb)
		}
	}
	return fns
}

// Summaries returns the packet's object summaries in stream order. The
// format expects at most one per packet but the codec does not enforce it.
func (p *Packet) Summaries() []*ObjectSummary {
	var sums []*ObjectSummary
	for _, e := range p.Entries {
		if s, ok := e.(*ObjectSummary); ok {
			sums = append(sums, s)
		}
	}
	return sums
}

// Opaques returns the packet's opaque records in stream order.
func (p *Packet) Opaques() []*OpaqueRecord {
	var recs []*OpaqueRecord
	for _, e := range p.Entries {
		if o, ok := e.(*OpaqueRecord); ok {
			recs = append(recs, o)
		}
	}
	return recs
}
