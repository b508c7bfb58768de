package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/openclinfo/internal/clinfo"
)

var (
	infoFormat = clinfo.FormatJSONIndent
	infoStrict bool
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the OpenCL capability document",
	Long: `Enumerates all OpenCL platforms and devices and prints the capability document.

By default a failed query truncates the document silently, matching the
registry contract. With --strict a partial or unavailable result is an error.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().VarP(&infoFormat, "format", "o", "Output format (json, json-indent, yaml, cbor)")
	infoCmd.Flags().BoolVar(&infoStrict, "strict", false, "Fail when the enumeration is partial or unavailable")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	enumerator, err := newEnumerator()
	if err != nil {
		return err
	}

	res := enumerator.Enumerate()
	if res.Outcome != clinfo.OutcomeComplete {
		if infoStrict {
			return fmt.Errorf("opencl enumeration %s: %w", res.Outcome, res.Err)
		}
		slog.Warn("OpenCL enumeration incomplete", "outcome", res.Outcome, "error", res.Err)
	}

	return printDocument(cmd.OutOrStdout(), res.Document, infoFormat)
}

// printDocument writes doc to out. JSON output ends with a newline like the
// yaml encoder's output does; cbor is written as is.
func printDocument(out io.Writer, doc clinfo.Document, format clinfo.Format) error {
	data, err := clinfo.Encode(doc, format)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if format == clinfo.FormatJSON || format == clinfo.FormatJSONIndent {
		_, err = fmt.Fprintln(out)
	}
	return err
}
