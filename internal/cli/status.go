package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/manage"
	"github.com/mvagnon/agents/internal/project"
	"github.com/mvagnon/agents/internal/status"
	"github.com/spf13/cobra"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print link health as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the links installed in the current project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		manifest, err := project.Load(cwd)
		if err != nil && !errors.Is(err, project.ErrNoManifest) {
			return err
		}

		statuses := status.Check(cwd, manage.DetectTools(cwd, reg), manifest.InstalledCategories())
		if statusJSON {
			data, err := json.MarshalIndent(statuses, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling status: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(statuses) == 0 {
			fmt.Fprintln(out, "No configured tools detected in this project.")
			return nil
		}
		fmt.Fprintln(out, "Link check:")
		if broken := status.Write(out, statuses); broken > 0 {
			fmt.Fprintf(out, "\n  %d broken link(s) found. Run `%s upgrade` to prune them.\n", broken, branding.CLIName())
		}
		return nil
	},
}
