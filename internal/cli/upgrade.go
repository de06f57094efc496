package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mvagnon/agents/internal/manage"
	"github.com/mvagnon/agents/internal/project"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/mvagnon/agents/internal/reconcile"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/stable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Sync the stable mirror and update the current project",
	Long: `Sync the stable mirror from the catalog, then bring the generic items of
the project in the current directory up to date.

Project-sensitive and always-copy items are never modified. Generic items
removed from the catalog are deleted and links left dangling are pruned.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		mirror, res, err := syncStable()
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		u := &upgrade{
			ProjectRoot: cwd,
			Mirror:      mirror,
			Synced:      res,
			Registry:    reg,
			Prompter:    newPrompter(),
			Log:         logger,
		}
		return u.Run()
	},
}

// upgrade reports a stable sync and reconciles one project.
type upgrade struct {
	ProjectRoot string
	Mirror      *stable.Mirror
	Synced      stable.Result
	Registry    *registry.Registry
	Prompter    prompt.Prompter
	Log         *zap.Logger
	Now         time.Time
}

func (u *upgrade) Run() error {
	p := u.Prompter
	p.Intro("Upgrade → " + u.ProjectRoot)
	p.Note(syncSummary(u.Synced), "Stable mirror")
	if u.Synced.Downgrade {
		p.Log(prompt.LevelWarn, fmt.Sprintf("Catalog version %s is older than %s", u.Synced.Version, u.Synced.Previous))
	}

	if !project.HasIntermediateDir(u.ProjectRoot) {
		p.Log(prompt.LevelInfo, "No bootstrapped project in this directory")
		p.Outro("Done")
		return nil
	}

	sp := p.Spinner()
	sp.Start("Updating project items")
	res, err := reconcile.Reconcile(project.IntermediateDir(u.ProjectRoot), u.Mirror.Catalog(), u.Log)
	if err != nil {
		sp.Stop("Upgrade failed")
		return err
	}
	pruned, err := reconcile.PruneDangling(u.ProjectRoot, manage.DetectTools(u.ProjectRoot, u.Registry))
	if err != nil {
		sp.Stop("Upgrade failed")
		return err
	}
	sp.Stop("Project items updated")

	if err := u.recordVersion(); err != nil {
		return err
	}

	if !res.Changed() && len(pruned) == 0 {
		p.Log(prompt.LevelInfo, "Project already up to date")
	} else {
		p.Note(listSummary(section{"Updated", res.Updated}, section{"Removed", res.Removed}, section{"Pruned links", pruned}), "Project")
	}
	p.Outro("Done")
	return nil
}

// recordVersion stamps the manifest with the mirror's catalog version.
func (u *upgrade) recordVersion() error {
	m, err := project.Load(u.ProjectRoot)
	if errors.Is(err, project.ErrNoManifest) {
		return nil
	}
	if err != nil {
		return err
	}
	if v := u.Mirror.Version(); v != "" {
		m.CatalogVersion = v
	}
	now := u.Now
	if now.IsZero() {
		now = time.Now()
	}
	m.Touch(now)
	return project.Save(u.ProjectRoot, m)
}

func syncSummary(res stable.Result) string {
	body := listSummary(section{"Added", res.Added}, section{"Updated", res.Updated}, section{"Removed", res.Removed})
	if res.Version != "" {
		body = "Version: " + res.Version + "\n" + body
	}
	return body
}

type section struct {
	label string
	items []string
}

// listSummary renders "<label>: <n>" lines followed by the indented paths.
func listSummary(sections ...section) string {
	var lines []string
	for _, s := range sections {
		lines = append(lines, fmt.Sprintf("%s: %d", s.label, len(s.items)))
		for _, it := range s.items {
			lines = append(lines, "  "+it)
		}
	}
	return strings.Join(lines, "\n")
}
