package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mvagnon/agents/internal/manage"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(manageCmd)
}

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Add or remove tools and generic items in the current project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		mirror, _, err := syncStable()
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		p := newPrompter()
		m := &manage.Manager{
			ProjectRoot: cwd,
			Stable:      mirror.Catalog(),
			Registry:    reg,
			Prompter:    p,
			Log:         logger,
		}
		err = m.Run()
		if errors.Is(err, prompt.ErrCancelled) {
			p.Cancel("Manage cancelled")
		}
		return err
	},
}
