/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
	"github.com/ssargent/bodyfile/pkg/storage"
	"github.com/ssargent/bodyfile/pkg/stream"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the record catalog as a bodyfile",
	Long: `Write every record in the catalog, in import order, as a bodyfile.
Writes to stdout unless --out is given.

Examples:
  bodyfile export > timeline.body
  bodyfile export --out ./timeline.body --limit 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		writer, err := openOutput(cmd.OutOrStdout(), outPath)
		if err != nil {
			return err
		}

		if err := runExport(store, writer, limit); err != nil {
			writer.Close()
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}

		appLogger.Info("export finished", "records", writer.Count(), "bytes", writer.Size())
		if outPath != "" && outPath != "-" {
			cmd.Printf("Exported %s to %s\n", describeExport(writer.Count(), writer.Size()), outPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().Int("limit", 0, "Maximum number of records (0 = all)")
}

// runExport writes up to limit stored records to writer
func runExport(store *storage.RecordStore, writer *stream.Writer, limit int) error {
	return store.List(limit, func(_ ksuid.KSUID, record bodyfile.Record) error {
		_, err := writer.Write(record)
		return err
	})
}

// describeExport renders a record count and byte size for humans
func describeExport(count, size int64) string {
	if count == 1 {
		return fmt.Sprintf("1 record (%s)", humanize.Bytes(uint64(size)))
	}
	return fmt.Sprintf("%d records (%s)", count, humanize.Bytes(uint64(size)))
}
