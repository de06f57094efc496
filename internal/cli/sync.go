package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var syncJSON bool

func init() {
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Print the sync report as JSON")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the stable mirror from the catalog",
	Long: `Make the stable mirror an exact replica of the catalog and print the files
that were added, updated and removed. Projects are not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mirror, res, err := syncStable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if syncJSON {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling sync report: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Stable mirror: %s\n", mirror.ConfigDir())
		fmt.Fprintln(out, syncSummary(res))
		return nil
	},
}
