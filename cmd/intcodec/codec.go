package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	intcodec "github.com/Akron/intcodec-go"
)

// newCodec builds the named codec (or codec.name when empty) with the
// configured options.
func (a *app) newCodec(name string) (intcodec.IntListCodec, error) {
	if name == "" {
		name = a.cfg.Codec.Name
	}
	opts, err := a.cfg.Codec.Options()
	if err != nil {
		return nil, err
	}
	return intcodec.New(name, opts)
}

func (a *app) newCodecsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List the available codecs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.cfg.Codec.Options()
			if err != nil {
				return err
			}
			for _, name := range intcodec.Names() {
				order := "sorted output"
				if intcodec.IsOrderPreserving(name, opts) {
					order = "order preserving"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, order)
			}
			return nil
		},
	}
}

func (a *app) newEncodeCommand() *cobra.Command {
	var codecName string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode whitespace-separated integers into a binary stream",
		Long: `Encode reads decimal integers separated by whitespace from file
(or standard input) and writes the encoded bytes to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := a.newCodec(codecName)
			if err != nil {
				return err
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
			buf, err := codec.Encode(values)
			if err != nil {
				a.logger.Error("encode failed", "codec", codec.Name(), "values", len(values), "error", err)
				return err
			}
			a.logger.Debug("encoded", "codec", codec.Name(), "values", len(values), "bytes", len(buf))

			_, err = cmd.OutOrStdout().Write(buf)
			return err
		},
	}
	cmd.Flags().StringVarP(&codecName, "codec", "c", "", "codec name (default codec.name)")

	return cmd
}

func (a *app) newDecodeCommand() *cobra.Command {
	var codecName string

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a binary stream back into integers",
		Long: `Decode reads bytes produced by encode from file (or standard input)
and prints one integer per line. The codec and its options must match the
ones used for encoding.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := a.newCodec(codecName)
			if err != nil {
				return err
			}

			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			buf, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			values, err := codec.Decode(buf)
			if err != nil {
				a.logger.Error("decode failed", "codec", codec.Name(), "bytes", len(buf), "error", err)
				return err
			}
			a.logger.Debug("decoded", "codec", codec.Name(), "bytes", len(buf), "values", len(values))

			return writeInts(cmd.OutOrStdout(), values)
		},
	}
	cmd.Flags().StringVarP(&codecName, "codec", "c", "", "codec name (default codec.name)")

	return cmd
}
