package cmd

import (
	"fmt"
	"os"

	"github.com/fiffu/billwatch/lib/jsonfile"
	"github.com/fiffu/billwatch/lib/snapshots"
	"github.com/spf13/cobra"
)

var fixDBFile string
var fixDBOut string

var fixDBCmd = &cobra.Command{
	Use:   "fix-db",
	Short: "Rewrite a legacy bill database into the current format",
	Long: `fix-db converts a bill database written by older releases: field names
become lowerCamel and MM/DD/YYYY dates become YYYY-MM-DD.

Examples:
  # Rewrite in place
  billwatch fix-db --file bill-database.json

  # Keep the original
  billwatch fix-db --file old.json --out bill-database.json`,
	RunE: runFixDB,
}

func init() {
	rootCmd.AddCommand(fixDBCmd)

	fixDBCmd.Flags().StringVarP(&fixDBFile, "file", "f", "bill-database.json", "Legacy bill database to read")
	fixDBCmd.Flags().StringVarP(&fixDBOut, "out", "o", "", "Where to write the result (defaults to --file)")
}

func runFixDB(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(fixDBFile)
	if err != nil {
		return err
	}

	fixed, err := snapshots.MigrateLegacyBills(data)
	if err != nil {
		return fmt.Errorf("%s: %w", fixDBFile, err)
	}

	out := fixDBOut
	if out == "" {
		out = fixDBFile
	}
	if err := jsonfile.WriteBytes(out, fixed); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}
