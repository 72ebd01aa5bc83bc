package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/storage"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record from the catalog",
	Long: `Delete a record from the catalog by id.

Example:
  bodyfile delete 2Dv3rWvYkjgT9X4kDaTMMAd2yvn`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := runDelete(store, args[0]); err != nil {
			return err
		}

		cmd.Printf("Deleted record: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(store *storage.RecordStore, rawID string) error {
	id, err := storage.ParseID(rawID)
	if err != nil {
		return err
	}
	if err := store.Delete(id); err != nil {
		return fmt.Errorf("error deleting record %s: %w", rawID, err)
	}
	return nil
}
