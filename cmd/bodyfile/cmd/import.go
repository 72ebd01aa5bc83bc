/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
	"github.com/ssargent/bodyfile/pkg/storage"
	"github.com/ssargent/bodyfile/pkg/stream"
)

const importBatchSize = 1000

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a bodyfile into the record catalog",
	Long: `Parse a bodyfile and store its records in the catalog under the data
directory. Records are committed in batches; an invalid line aborts the import
after the batches before it were committed, unless --skip-invalid is set.

Examples:
  bodyfile import timeline.body
  bodyfile import --skip-invalid --data-dir ./case42 timeline.body`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipInvalid := cfg.Parser.SkipInvalid
		if cmd.Flags().Changed("skip-invalid") {
			skipInvalid, _ = cmd.Flags().GetBool("skip-invalid")
		}

		reader, err := openInput(cmd, inputArg(args), skipInvalid)
		if err != nil {
			return err
		}
		defer reader.Close()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := runImport(reader, store, importBatchSize)
		appLogger.Info("import finished", "records", n, "skipped", reader.Skipped())
		if err != nil {
			return err
		}

		cmd.Printf("Imported %d records (%d skipped)\n", n, reader.Skipped())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("skip-invalid", false, "Skip lines that fail to parse")
}

// runImport stores every record from reader in batches and returns how many were stored
func runImport(reader *stream.Reader, store *storage.RecordStore, batchSize int) (int, error) {
	n := 0
	batch := make([]bodyfile.Record, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		ids, err := store.CreateBatch(batch)
		if err != nil {
			return fmt.Errorf("failed to store records: %w", err)
		}
		n += len(ids)
		batch = batch[:0]
		return nil
	}

	it := reader.Iterator()
	for it.Next() {
		batch = append(batch, it.Record())
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
	if err := it.Err(); err != nil {
		return n, fmt.Errorf("import failed: %w", err)
	}

	return n, flush()
}
