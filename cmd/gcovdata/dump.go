package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"gcovdata/pkg/gcda"
)

type dumpFile struct {
	Path      string         `json:"path"`
	Version   uint32         `json:"version"`
	Checksum  string         `json:"checksum"`
	BigEndian bool           `json:"big_endian"`
	Functions []dumpFunction `json:"functions"`
	Summaries []dumpSummary  `json:"summaries,omitempty"`
	Opaque    []dumpOpaque   `json:"opaque,omitempty"`
}

type dumpFunction struct {
	Ident        uint32     `json:"ident"`
	LineChecksum uint32     `json:"line_checksum"`
	CFGChecksum  *uint32    `json:"cfg_checksum,omitempty"`
	Arcs         [][]uint64 `json:"arcs"`
}

type dumpSummary struct {
	Runs       uint32  `json:"runs"`
	Reserved   uint32  `json:"reserved"`
	ActualRuns *uint32 `json:"actual_runs,omitempty"`
}

type dumpOpaque struct {
	Tag       string `json:"tag"`
	SizeBytes int    `json:"size_bytes"`
}

func dumpCmd() *cli.Command {
	var pretty bool

	return &cli.Command{
		Name:      "dump",
		Usage:     "Decode counter files and print them as JSON",
		ArgsUsage: "<file.gcda> [...]",
		Flags: append(loggingFlags(),
			&cli.BoolFlag{
				Name:        "pretty",
				Aliases:     []string{"p"},
				Usage:       "indent JSON output",
				Destination: &pretty,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDumpConfig(cmd, LoadConfig(), &pretty)
			log := buildLogger()

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("no input files (usage: gcovdata dump <file.gcda> [...])")
			}

			files := make([]dumpFile, 0, len(paths))
			for _, path := range paths {
				packet, err := gcda.Open(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				log.Debug("decoded counter file", "path", path, "version", packet.Version, "entries", len(packet.Entries))
				files = append(files, newDumpFile(path, packet))
			}

			var out any = files
			if len(files) == 1 {
				out = files[0]
			}

			var (
				data []byte
				err  error
			)
			if pretty {
				data, err = json.MarshalIndent(out, "", "  ")
			} else {
				data, err = json.Marshal(out)
			}
			if err != nil {
				return err
			}
			data = append(data, '\n')
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

func newDumpFile(path string, p *gcda.Packet) dumpFile {
	out := dumpFile{
		Path:      path,
		Version:   p.Version,
		Checksum:  fmt.Sprintf("%08x", p.Checksum),
		BigEndian: p.BigEndian,
		Functions: make([]dumpFunction, 0, len(p.Functions())),
	}
	for _, fn := range p.Functions() {
		df := dumpFunction{
			Ident:        fn.Ident,
			LineChecksum: fn.LineChecksum,
			Arcs:         make([][]uint64, 0, len(fn.Groups)),
		}
		if p.Version >= gcda.VersionCFGChecksum {
			cfg := fn.CFGChecksum
			df.CFGChecksum = &cfg
		}
		for _, group := range fn.Groups {
			df.Arcs = append(df.Arcs, group.Counters)
		}
		out.Functions = append(out.Functions, df)
	}
	for _, sum := range p.Summaries() {
		out.Summaries = append(out.Summaries, dumpSummary{
			Runs:       sum.Runs,
			Reserved:   sum.Reserved,
			ActualRuns: sum.ActualRuns,
		})
	}
	for _, rec := range p.Opaques() {
		out.Opaque = append(out.Opaque, dumpOpaque{
			Tag:       fmt.Sprintf("0x%08x", rec.Tag),
			SizeBytes: len(rec.Payload),
		})
	}
	return out
}
