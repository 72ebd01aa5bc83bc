/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Build a bodyfile line from flags",
	Long: `Build a single bodyfile line from the given field values. Fields that
are not given keep their defaults: md5 and inode "0", empty name and mode,
zero ids and size, and unknown (-1) timestamps.

Example:
  bodyfile format --name /etc/passwd --mode r/rrw-r--r-- --size 1024 --mtime 1577092511`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := recordFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), bodyfile.Format(record))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
	addRecordFlags(formatCmd.Flags())
}

func addRecordFlags(f *pflag.FlagSet) {
	f.String("md5", "0", "MD5 checksum")
	f.String("name", "", "File name")
	f.String("inode", "0", "Inode")
	f.String("mode", "", "Mode as text")
	f.Uint64("uid", 0, "Owner user id")
	f.Uint64("gid", 0, "Owner group id")
	f.Uint64("size", 0, "Size in bytes")
	f.Int64("atime", bodyfile.UnknownTime, "Access time")
	f.Int64("mtime", bodyfile.UnknownTime, "Modification time")
	f.Int64("ctime", bodyfile.UnknownTime, "Change time")
	f.Int64("crtime", bodyfile.UnknownTime, "Creation time")
}

// recordFromFlags applies every changed field flag to a new record
func recordFromFlags(f *pflag.FlagSet) (bodyfile.Record, error) {
	record := bodyfile.New()

	var err error
	f.Visit(func(flag *pflag.Flag) {
		if err != nil {
			return
		}
		switch flag.Name {
		case "md5":
			record = record.WithMD5(flag.Value.String())
		case "name":
			record = record.WithName(flag.Value.String())
		case "inode":
			record = record.WithInode(flag.Value.String())
		case "mode":
			record = record.WithMode(flag.Value.String())
		case "uid":
			var v uint64
			v, err = f.GetUint64("uid")
			record = record.WithUID(v)
		case "gid":
			var v uint64
			v, err = f.GetUint64("gid")
			record = record.WithGID(v)
		case "size":
			var v uint64
			v, err = f.GetUint64("size")
			record = record.WithSize(v)
		case "atime":
			var v int64
			v, err = f.GetInt64("atime")
			record = record.WithATime(v)
		case "mtime":
			var v int64
			v, err = f.GetInt64("mtime")
			record = record.WithMTime(v)
		case "ctime":
			var v int64
			v, err = f.GetInt64("ctime")
			record = record.WithCTime(v)
		case "crtime":
			var v int64
			v, err = f.GetInt64("crtime")
			record = record.WithCRTime(v)
		}
	})

	return record, err
}
