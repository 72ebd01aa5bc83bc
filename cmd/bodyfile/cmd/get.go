package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
	"github.com/ssargent/bodyfile/pkg/storage"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a record from the catalog",
	Long: `Get a record from the catalog by id.

Example:
  bodyfile get 2Dv3rWvYkjgT9X4kDaTMMAd2yvn
  bodyfile get --json 2Dv3rWvYkjgT9X4kDaTMMAd2yvn`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return runGet(store, cmd.OutOrStdout(), args[0], asJSON)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("json", false, "Print the record as JSON")
}

func runGet(store *storage.RecordStore, out io.Writer, rawID string, asJSON bool) error {
	id, err := storage.ParseID(rawID)
	if err != nil {
		return err
	}

	record, err := store.Read(id)
	if err != nil {
		return fmt.Errorf("error getting record %s: %w", rawID, err)
	}

	if asJSON {
		return json.NewEncoder(out).Encode(record)
	}
	_, err = fmt.Fprintln(out, bodyfile.Format(record))
	return err
}
