package install

import (
	"fmt"
	"strings"
	"time"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/gitignore"
	"github.com/mvagnon/agents/internal/project"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/selection"
	"github.com/mvagnon/agents/internal/ui"
	"go.uber.org/zap"
)

// Request is one bootstrap of a project.
type Request struct {
	ProjectRoot string
	// Catalog is the stable mirror the items are installed from.
	Catalog        *catalog.Catalog
	CatalogVersion string
	Registry       *registry.Registry
	Selection      selection.Selection
	Prompter       prompt.Prompter
	AssumeDefaults bool
	Log            *zap.Logger
	// Now stamps the project manifest; zero means time.Now.
	Now time.Time
}

// ToolReport is what one tool received.
type ToolReport struct {
	Tool registry.Tool
	// Categories lists the categories installed for the tool, in order.
	Categories  []catalog.Category
	Counts      map[catalog.Category]int
	RootFiles   []string
	ConfigFiles []string
	// Gitignore is false when the section already existed.
	Gitignore bool
}

// Report summarizes a bootstrap.
type Report struct {
	Tools      []ToolReport
	Resolution Resolution
}

// Run installs every eligible item for every selected tool, resolves the
// conflicts found on the way, updates .gitignore and writes the project
// manifest.
func Run(req Request) (*Report, error) {
	log := req.Log
	if log == nil {
		log = zap.NewNop()
	}
	sel := req.Selection
	tools, err := req.Registry.ToolsByKey(sel.Tools())
	if err != nil {
		return nil, err
	}

	inst := New(Policy{
		ProjectRoot:     req.ProjectRoot,
		IntermediateDir: project.IntermediateDir(req.ProjectRoot),
		LinkMode:        sel.LinkMode(),
		AlwaysCopy:      req.Registry.IsAlwaysCopy,
	}, NewSession(), log)

	sp := req.Prompter.Spinner()
	if sel.LinkMode() == selection.LinkSymlink {
		sp.Start("Creating symlinks")
	} else {
		sp.Start("Copying files")
	}

	report := &Report{}
	tax := req.Registry.Taxonomy()
	for _, tool := range tools {
		sp.Message("Installing " + tool.Label)
		tr, err := installTool(inst, req, tool, tax)
		if err != nil {
			sp.Stop("Setup failed")
			return nil, err
		}
		report.Tools = append(report.Tools, tr)
	}
	sp.Stop("Files installed")

	resolver := &Resolver{
		Prompter:       req.Prompter,
		ProjectRoot:    req.ProjectRoot,
		AssumeDefaults: req.AssumeDefaults,
		Log:            log,
	}
	report.Resolution, err = resolver.Resolve(inst.Session().Conflicts())
	if err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	if err := project.Save(req.ProjectRoot, project.FromSelection(sel, req.CatalogVersion, now)); err != nil {
		return nil, err
	}
	return report, nil
}

func installTool(inst *Installer, req Request, tool registry.Tool, tax selection.Taxonomy) (ToolReport, error) {
	tr := ToolReport{Tool: tool, Counts: map[catalog.Category]int{}}

	for _, cat := range req.Registry.Categories() {
		if _, ok := tool.Path(cat); !ok || !req.Selection.HasCategory(string(cat)) {
			continue
		}
		items, err := req.Catalog.Items(cat)
		if err != nil {
			return tr, err
		}
		n, err := inst.InstallCategory(tool, cat, Eligible(items, req.Selection, tax))
		if err != nil {
			return tr, fmt.Errorf("installing %s for %s: %w", cat, tool.Label, err)
		}
		tr.Categories = append(tr.Categories, cat)
		tr.Counts[cat] = n
	}

	var err error
	if tr.RootFiles, err = inst.InstallRootFiles(tool, req.Catalog); err != nil {
		return tr, err
	}
	if tr.ConfigFiles, err = inst.InstallConfigFiles(tool, req.Catalog); err != nil {
		return tr, err
	}

	exceptions := req.Selection.GitignoreMode() == selection.GitignoreExceptions
	if tr.Gitignore, err = gitignore.AddSection(req.ProjectRoot, tool.Label, tool.GitignoreEntries, exceptions); err != nil {
		return tr, err
	}
	return tr, nil
}

// Summary renders the per-tool note body.
func (tr ToolReport) Summary(sel selection.Selection) string {
	mode := "copied"
	if sel.LinkMode() == selection.LinkSymlink {
		mode = "linked"
	}

	var lines []string
	for _, cat := range tr.Categories {
		lines = append(lines, fmt.Sprintf("%-7s %d %s", ui.Capitalize(string(cat))+":", tr.Counts[cat], mode))
	}
	for _, f := range tr.RootFiles {
		lines = append(lines, f+": linked")
	}
	for _, f := range tr.ConfigFiles {
		lines = append(lines, f+": copied")
	}

	switch {
	case !tr.Gitignore:
		lines = append(lines, ".gitignore: unchanged")
	case sel.GitignoreMode() == selection.GitignoreExceptions:
		lines = append(lines, ".gitignore: exceptions added")
	default:
		lines = append(lines, ".gitignore: entries added")
	}
	return strings.Join(lines, "\n")
}
