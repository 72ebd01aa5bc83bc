/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/stream"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a bodyfile and print its records",
	Long: `Parse a bodyfile and print every record in canonical form, or as JSON
lines with --json. Reads stdin when no file or "-" is given.

Parsing stops at the first invalid line unless --skip-invalid is set.

Examples:
  bodyfile parse timeline.body
  fls -r -m / image.dd | bodyfile parse --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		skipInvalid := cfg.Parser.SkipInvalid
		if cmd.Flags().Changed("skip-invalid") {
			skipInvalid, _ = cmd.Flags().GetBool("skip-invalid")
		}

		reader, err := openInput(cmd, inputArg(args), skipInvalid)
		if err != nil {
			return err
		}
		defer reader.Close()

		n, err := runParse(reader, cmd.OutOrStdout(), asJSON)
		appLogger.Debug("parse finished", "records", n, "skipped", reader.Skipped())
		return err
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("json", false, "Print records as JSON lines")
	parseCmd.Flags().Bool("skip-invalid", false, "Skip lines that fail to parse")
}

// runParse prints every record from reader to out and returns how many were printed
func runParse(reader *stream.Reader, out io.Writer, asJSON bool) (int, error) {
	var enc *json.Encoder
	var writer *stream.Writer
	if asJSON {
		enc = json.NewEncoder(out)
	} else {
		writer = stream.NewStreamWriter(out, cfg.Writer.BufferSize)
		defer writer.Close()
	}

	n := 0
	it := reader.Iterator()
	for it.Next() {
		if asJSON {
			if err := enc.Encode(it.Record()); err != nil {
				return n, err
			}
		} else if _, err := writer.Write(it.Record()); err != nil {
			return n, err
		}
		n++
	}
	if err := it.Err(); err != nil {
		return n, fmt.Errorf("parse failed: %w", err)
	}
	return n, nil
}
