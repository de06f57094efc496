package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvagnon/agents/internal/branding"
	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/install"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/selection"
	"github.com/mvagnon/agents/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var assumeYes bool

func init() {
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Keep existing files that differ from the catalog without asking")
}

func runBootstrapCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageErrorf("missing target path")
	}
	target, err := resolveTarget(args[0])
	if err != nil {
		return err
	}

	mirror, _, err := syncStable()
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	b := &bootstrap{
		Target:         target,
		Catalog:        mirror.Catalog(),
		CatalogVersion: mirror.Version(),
		Registry:       reg,
		Prompter:       newPrompter(),
		AssumeDefaults: assumeYes,
		Log:            logger,
	}
	return b.Run()
}

// resolveTarget expands a leading ~ and requires an existing directory.
func resolveTarget(arg string) (string, error) {
	if arg == "~" || strings.HasPrefix(arg, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		arg = filepath.Join(home, strings.TrimPrefix(arg, "~"))
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", usageErrorf("invalid target path %q: %v", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", usageErrorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", usageErrorf("path must be a directory: %s", abs)
	}
	return abs, nil
}

// bootstrap is the interactive setup of one project.
type bootstrap struct {
	Target         string
	Catalog        *catalog.Catalog
	CatalogVersion string
	Registry       *registry.Registry
	Prompter       prompt.Prompter
	AssumeDefaults bool
	Log            *zap.Logger
	Now            time.Time
}

// Run asks for the selection, installs it and prints the summary. A
// cancelled question prints the cancel notice and returns
// prompt.ErrCancelled.
func (b *bootstrap) Run() error {
	err := b.run()
	if errors.Is(err, prompt.ErrCancelled) {
		b.Prompter.Cancel("Setup cancelled")
	}
	return err
}

func (b *bootstrap) run() error {
	p := b.Prompter
	p.Intro(branding.DisplayName() + " → " + b.Target)

	sel, err := b.ask()
	if err != nil {
		return err
	}

	report, err := install.Run(install.Request{
		ProjectRoot:    b.Target,
		Catalog:        b.Catalog,
		CatalogVersion: b.CatalogVersion,
		Registry:       b.Registry,
		Selection:      sel,
		Prompter:       p,
		AssumeDefaults: b.AssumeDefaults,
		Log:            b.Log,
		Now:            b.Now,
	})
	if err != nil {
		return err
	}

	for _, tr := range report.Tools {
		p.Note(tr.Summary(sel), tr.Tool.Label+" Setup")
	}
	if kept := report.Resolution.Kept; len(kept) > 0 {
		p.Log(prompt.LevelWarn, fmt.Sprintf("Kept %d existing file(s): %s", len(kept), strings.Join(kept, ", ")))
	}
	p.Note(nextSteps(), "Next Steps")
	p.Outro("Done")
	return nil
}

// ask runs the selection questions in order: tools, technologies,
// architecture, categories, link mode, and gitignore handling for copy
// mode only.
func (b *bootstrap) ask() (selection.Selection, error) {
	p := b.Prompter
	reg := b.Registry

	var toolOpts []prompt.Option
	for _, t := range reg.Tools() {
		toolOpts = append(toolOpts, prompt.Option{Value: t.Key, Label: t.Label, Hint: t.Hint})
	}
	tools, err := p.MultiSelect("Select tools", toolOpts, true)
	if err != nil {
		return selection.Selection{}, err
	}

	techs, err := p.MultiSelect("Select technologies", choiceOptions(reg.Technologies()), false)
	if err != nil {
		return selection.Selection{}, err
	}

	arch, err := p.Select("Select custom architecture", choiceOptions(reg.Architectures()))
	if err != nil {
		return selection.Selection{}, err
	}

	var catOpts []prompt.Option
	for _, c := range reg.Categories() {
		catOpts = append(catOpts, prompt.Option{Value: string(c), Label: ui.Capitalize(string(c)), Selected: true})
	}
	categories, err := p.MultiSelect("Select categories", catOpts, true)
	if err != nil {
		return selection.Selection{}, err
	}

	// Without native symlinks every link degrades to a copy, so suggest
	// copy mode up front.
	useSymlinks, err := p.Confirm("Use symlinks?", platform.IsSymlinkSupported())
	if err != nil {
		return selection.Selection{}, err
	}
	link, gi := selection.LinkSymlink, selection.GitignoreAdd
	if !useSymlinks {
		link = selection.LinkCopy
		mode, err := p.Select("Gitignore handling?", []prompt.Option{
			{Value: string(selection.GitignoreAdd), Label: "Add to .gitignore", Hint: "Add entries to ignore config files"},
			{Value: string(selection.GitignoreExceptions), Label: "Create exceptions", Hint: "Use negation patterns (!path) to track specific files"},
		})
		if err != nil {
			return selection.Selection{}, err
		}
		gi = selection.GitignoreMode(mode)
	}

	sel, err := selection.New(tools, techs, arch, link, gi)
	if err != nil {
		return selection.Selection{}, err
	}
	if len(categories) < len(catOpts) {
		sel = sel.WithCategories(categories)
	}
	return sel, nil
}

func choiceOptions(choices []registry.Choice) []prompt.Option {
	opts := make([]prompt.Option, 0, len(choices))
	for _, c := range choices {
		opts = append(opts, prompt.Option{Value: c.Value, Label: c.Label, Hint: c.Hint})
	}
	return opts
}

func nextSteps() string {
	return strings.Join([]string{
		"1. Edit " + filepath.ToSlash(filepath.Join(branding.IntermediateDir(), "rules", "project.md")) + " to add project-specific rules",
		"2. Add skills, agents, or MCP servers based on your needs",
		"3. Run `" + branding.CLIName() + " manage` to add tools or toggle generic items",
	}, "\n")
}
