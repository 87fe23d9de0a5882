// Package gcda implements the on-disk format of compiler-produced
// coverage-counter (.gcda) files.
//
// A packet is a format-revision word and an object checksum followed by a
// linear stream of tag-plus-length records. Record payloads are counted in
// 4-byte words, function records change shape with the format revision, and
// counter-array records attach to the most recently declared function.
// Unrecognised record types are carried as opaque payloads so that packets
// written by newer compilers still round-trip byte-for-byte.
//
// The package is a pure in-memory transform: Decode and Encode never touch
// the filesystem. Open and OpenReaderAt add the file shell (magic word,
// mmap) on top.
package gcda

// Record tags, as fixed by the gcov format family.
const (
	TagFunction       uint32 = 0x01000000
	TagCounterArcs    uint32 = 0x01a10000
	TagObjectSummary  uint32 = 0xa1000000
	TagProgramSummary uint32 = 0xa3000000
)

// VersionCFGChecksum is the first format revision whose function records
// carry a control-flow-graph checksum (GCC 4.7).
const VersionCFGChecksum uint32 = 47

// magicWord reads "gcda" when the word is rendered most-significant byte
// first. Little-endian producers therefore start their files with "adcg".
const magicWord uint32 = 0x67636461

const bytesPerWord = 4
