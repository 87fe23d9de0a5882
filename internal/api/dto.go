package api

import (
	"fmt"
	"time"

	"gcovdata/pkg/gcda"
)

// PacketMeta is the listing view of a stored packet.
type PacketMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int       `json:"size_bytes"`
	Version   uint32    `json:"version"`
	Functions int       `json:"functions"`
}

// PacketDetail is the full decoded view of a stored packet.
type PacketDetail struct {
	PacketMeta
	Checksum  string             `json:"checksum"`
	BigEndian bool               `json:"big_endian"`
	Records   []RecordDTO        `json:"records"`
	Summaries []ObjectSummaryDTO `json:"summaries,omitempty"`
}

// RecordDTO flattens one packet entry for JSON output. Exactly one of
// the optional groups is populated, keyed by Kind.
type RecordDTO struct {
	Kind string `json:"kind"`

	// kind == "function"
	Ident        *uint32    `json:"ident,omitempty"`
	LineChecksum *uint32    `json:"line_checksum,omitempty"`
	CFGChecksum  *uint32    `json:"cfg_checksum,omitempty"`
	Arcs         [][]uint64 `json:"arcs,omitempty"`

	// kind == "object_summary"
	Runs       *uint32 `json:"runs,omitempty"`
	Reserved   *uint32 `json:"reserved,omitempty"`
	ActualRuns *uint32 `json:"actual_runs,omitempty"`

	// kind == "opaque"
	Tag       string `json:"tag,omitempty"`
	SizeBytes *int   `json:"size_bytes,omitempty"`
}

type ObjectSummaryDTO struct {
	Runs       uint32  `json:"runs"`
	Reserved   uint32  `json:"reserved"`
	ActualRuns *uint32 `json:"actual_runs,omitempty"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type ListResponse struct {
	Object string       `json:"object"`
	Data   []PacketMeta `json:"data"`
}

func packetDetail(meta PacketMeta, p *gcda.Packet) PacketDetail {
	detail := PacketDetail{
		PacketMeta: meta,
		Checksum:   fmt.Sprintf("%08x", p.Checksum),
		BigEndian:  p.BigEndian,
		Records:    make([]RecordDTO, 0, len(p.Entries)),
	}
	for _, entry := range p.Entries {
		switch rec := entry.(type) {
		case *gcda.FunctionBlock:
			dto := RecordDTO{
				Kind:         "function",
				Ident:        u32p(rec.Ident),
				LineChecksum: u32p(rec.LineChecksum),
				Arcs:         make([][]uint64, 0, len(rec.Groups)),
			}
			if p.Version >= gcda.VersionCFGChecksum {
				dto.CFGChecksum = u32p(rec.CFGChecksum)
			}
			for _, group := range rec.Groups {
				dto.Arcs = append(dto.Arcs, group.Counters)
			}
			detail.Records = append(detail.Records, dto)
		case *gcda.ObjectSummary:
			detail.Records = append(detail.Records, RecordDTO{
				Kind:       "object_summary",
				Runs:       u32p(rec.Runs),
				Reserved:   u32p(rec.Reserved),
				ActualRuns: rec.ActualRuns,
			})
			detail.Summaries = append(detail.Summaries, ObjectSummaryDTO{
				Runs:       rec.Runs,
				Reserved:   rec.Reserved,
				ActualRuns: rec.ActualRuns,
			})
		case *gcda.OpaqueRecord:
			size := len(rec.Payload)
			detail.Records = append(detail.Records, RecordDTO{
				Kind:      "opaque",
				Tag:       fmt.Sprintf("0x%08x", rec.Tag),
				SizeBytes: &size,
			})
		}
	}
	return detail
}

func u32p(v uint32) *uint32 {
	return &v
}
