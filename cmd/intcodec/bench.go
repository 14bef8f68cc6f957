package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	intcodec "github.com/Akron/intcodec-go"
)

// rawValueBytes is the size of an uncompressed int64.
const rawValueBytes = 8

// errRoundTrip reports a codec whose decoded output differs from its input.
var errRoundTrip = errors.New("round trip mismatch")

// benchResult holds the measurements of one codec run.
type benchResult struct {
	codec  string
	size   int
	encode time.Duration
	decode time.Duration
	err    error
}

func (a *app) newBenchCommand() *cobra.Command {
	var codecs []string

	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Compare all configured codecs on a list of integers",
		Long: `Bench encodes and decodes the integers read from file (or standard
input) with every configured codec, verifies the round trip and prints the
encoded size, bits per value, compression ratio and timings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(codecs) == 0 {
				codecs = a.cfg.Bench.Codecs
			}

			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			values, err := readInts(in)
			if err != nil {
				return err
			}

			results := make([]benchResult, 0, len(codecs))
			var failed int
			for _, name := range codecs {
				res := a.benchCodec(name, values)
				if res.err != nil {
					failed++
					a.logger.Error("codec failed", "codec", name, "error", res.err)
				}
				results = append(results, res)
			}

			renderBench(cmd, values, results)
			if failed > 0 {
				return fmt.Errorf("%d of %d codecs failed", failed, len(codecs))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&codecs, "codecs", nil, "codecs to compare (default bench.codecs)")

	return cmd
}

// benchCodec runs a single encode/decode cycle and checks the result.
func (a *app) benchCodec(name string, values []int64) benchResult {
	res := benchResult{codec: name}
	codec, err := a.newCodec(name)
	if err != nil {
		res.err = err
		return res
	}
	res.codec = codec.Name()

	start := time.Now()
	buf, err := codec.Encode(values)
	res.encode = time.Since(start)
	if err != nil {
		res.err = fmt.Errorf("encode: %w", err)
		return res
	}
	res.size = len(buf)

	start = time.Now()
	got, err := codec.Decode(buf)
	res.decode = time.Since(start)
	if err != nil {
		res.err = fmt.Errorf("decode: %w", err)
		return res
	}

	want := values
	opts, _ := a.cfg.Codec.Options()
	if !intcodec.IsOrderPreserving(name, opts) {
		want = slices.Clone(values)
		slices.Sort(want)
	}
	if !slices.Equal(want, got) {
		res.err = errRoundTrip
		return res
	}

	a.logger.Debug("codec run",
		"codec", res.codec,
		"values", len(values),
		"bytes", res.size,
		"encode", res.encode,
		"decode", res.decode,
	)
	return res
}

func renderBench(cmd *cobra.Command, values []int64, results []benchResult) {
	rawSize := rawValueBytes * len(values)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(cmd.OutOrStdout())
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Codec", "Size", "Bits/Value", "Ratio", "Encode", "Decode", "Status"})

	for _, res := range results {
		if res.err != nil {
			tbl.AppendRow(table.Row{res.codec, "-", "-", "-", "-", "-", res.err.Error()})
			continue
		}
		bitsPerValue, ratio := 0.0, 0.0
		if len(values) > 0 {
			bitsPerValue = float64(8*res.size) / float64(len(values))
		}
		if res.size > 0 {
			ratio = float64(rawSize) / float64(res.size)
		}
		tbl.AppendRow(table.Row{
			res.codec,
			humanize.IBytes(uint64(res.size)),
			fmt.Sprintf("%.2f", bitsPerValue),
			fmt.Sprintf("%.2fx", ratio),
			res.encode.Round(time.Microsecond),
			res.decode.Round(time.Microsecond),
			"ok",
		})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%s values", humanize.Comma(int64(len(values)))),
		humanize.IBytes(uint64(rawSize)),
	})
	tbl.Render()
}
