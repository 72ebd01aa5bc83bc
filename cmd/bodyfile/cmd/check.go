/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
	"github.com/ssargent/bodyfile/pkg/stream"
)

// errInvalidLines is returned by check when at least one line was rejected
var errInvalidLines = errors.New("bodyfile contains invalid lines")

// CheckResult summarises the validation of a bodyfile
type CheckResult struct {
	Lines   int
	Valid   int
	Invalid map[bodyfile.ParseError]int
	First   []*stream.LineError // first rejected lines, up to maxReported
}

const maxReported = 10

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate every line of a bodyfile",
	Long: `Validate every line of a bodyfile and print a summary of the rejected
lines grouped by error. Exits non-zero when any line is invalid.

Examples:
  bodyfile check timeline.body
  cat timeline.body | bodyfile check`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := openInput(cmd, inputArg(args), false)
		if err != nil {
			return err
		}
		defer reader.Close()

		result, err := runCheck(reader)
		if err != nil {
			return err
		}

		printCheckResult(cmd.OutOrStdout(), result)
		if len(result.Invalid) > 0 {
			return errInvalidLines
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck reads reader to the end, tallying rejected lines by error
func runCheck(reader *stream.Reader) (*CheckResult, error) {
	result := &CheckResult{Invalid: make(map[bodyfile.ParseError]int)}

	for {
		_, err := reader.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			var lineErr *stream.LineError
			var parseErr bodyfile.ParseError
			if !errors.As(err, &lineErr) || !errors.As(err, &parseErr) {
				return nil, err
			}
			result.Invalid[parseErr]++
			if len(result.First) < maxReported {
				result.First = append(result.First, lineErr)
			}
			continue
		}
		result.Valid++
	}

	result.Lines = reader.Line()
	return result, nil
}

func printCheckResult(out io.Writer, result *CheckResult) {
	invalid := result.Lines - result.Valid
	if invalid == 0 {
		color.New(color.FgGreen).Fprintf(out, "%d lines, %d valid, %d invalid\n", result.Lines, result.Valid, invalid)
		return
	}
	color.New(color.FgYellow).Fprintf(out, "%d lines, %d valid, %d invalid\n", result.Lines, result.Valid, invalid)

	for _, e := range bodyfile.ParseErrors {
		if n := result.Invalid[e]; n > 0 {
			fmt.Fprintf(out, "  %-22s %d\n", e, n)
		}
	}
	red := color.New(color.FgRed)
	for _, lineErr := range result.First {
		red.Fprintf(out, "  %v\n", lineErr)
	}
}
