package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/selection"
	"go.uber.org/zap"
)

// Policy decides where each item is materialized.
type Policy struct {
	ProjectRoot     string
	IntermediateDir string
	LinkMode        selection.LinkMode
	// AlwaysCopy reports generic items that still get an intermediate copy.
	AlwaysCopy func(cat catalog.Category, name string) bool
}

func (p Policy) alwaysCopy(item catalog.Item) bool {
	return p.AlwaysCopy != nil && p.AlwaysCopy(item.Category, item.Name)
}

// UsesIntermediate reports whether item is stored in the intermediate
// directory rather than linked to the stable mirror.
func (p Policy) UsesIntermediate(item catalog.Item) bool {
	return p.LinkMode == selection.LinkCopy ||
		item.Sensitivity == catalog.ProjectSensitive ||
		p.alwaysCopy(item)
}

// Installer places items, root files and config files for one run.
type Installer struct {
	policy  Policy
	session *Session
	log     *zap.Logger
}

// New returns an installer. A nil session starts a fresh one and a nil
// logger is replaced by a no-op logger.
func New(policy Policy, session *Session, log *zap.Logger) *Installer {
	if session == nil {
		session = NewSession()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Installer{policy: policy, session: session, log: log}
}

// Session returns the run's materialization cache.
func (in *Installer) Session() *Session { return in.session }

// InstallCategory places items into the tool's directory for cat and
// returns how many were installed. A tool without a directory for the
// category installs nothing.
func (in *Installer) InstallCategory(tool registry.Tool, cat catalog.Category, items []catalog.Item) (int, error) {
	rel, ok := tool.Path(cat)
	if !ok {
		return 0, nil
	}
	toolDir := filepath.Join(in.policy.ProjectRoot, rel)
	if err := os.MkdirAll(toolDir, 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", rel, err)
	}

	count := 0
	for _, item := range items {
		entry := filepath.Join(toolDir, item.Name)

		if in.policy.UsesIntermediate(item) {
			stored := StoragePath(in.policy.IntermediateDir, item, in.policy.alwaysCopy(item))
			if err := in.materialize(item.Key(), item.Path, stored); err != nil {
				return count, err
			}
			if err := platform.CreateRelativeSymlink(stored, entry); err != nil {
				return count, fmt.Errorf("linking %s: %w", item.Key(), err)
			}
			in.log.Debug("linked intermediate copy", zap.String("tool", tool.Key), zap.String("item", item.Key()))
		} else {
			if err := platform.CreateAbsoluteSymlink(item.Path, entry); err != nil {
				return count, fmt.Errorf("linking %s: %w", item.Key(), err)
			}
			in.log.Debug("linked stable item", zap.String("tool", tool.Key), zap.String("item", item.Key()))
		}
		count++
	}
	return count, nil
}

// InstallRootFiles materializes each of the tool's root files once in the
// intermediate directory and links the tool's destination name to it.
// Root files missing from the catalog are skipped. It returns the
// destinations that were linked.
func (in *Installer) InstallRootFiles(tool registry.Tool, cat *catalog.Catalog) ([]string, error) {
	var linked []string
	for _, m := range tool.RootFileMappings() {
		src, ok := cat.File(m.Source)
		if !ok {
			in.log.Debug("root file not in catalog", zap.String("file", m.Source))
			continue
		}
		stored := RootFilePath(in.policy.IntermediateDir, m.Source)
		if err := in.materialize(m.Source, src, stored); err != nil {
			return linked, err
		}
		dest := filepath.Join(in.policy.ProjectRoot, m.Dest)
		if err := platform.CreateRelativeSymlink(stored, dest); err != nil {
			return linked, fmt.Errorf("linking %s: %w", m.Dest, err)
		}
		linked = append(linked, m.Dest)
	}
	return linked, nil
}

// InstallConfigFiles copies the tool's config files to their project
// destinations. They are never linked. An existing destination with other
// content becomes a conflict.
func (in *Installer) InstallConfigFiles(tool registry.Tool, cat *catalog.Catalog) ([]string, error) {
	var copied []string
	for _, m := range tool.ConfigFileMappings() {
		src, ok := cat.File(m.Source)
		if !ok {
			in.log.Debug("config file not in catalog", zap.String("file", m.Source))
			continue
		}
		dest := filepath.Join(in.policy.ProjectRoot, m.Dest)
		if err := in.materialize("config/"+m.Dest, src, dest); err != nil {
			return copied, err
		}
		copied = append(copied, m.Dest)
	}
	return copied, nil
}

// materialize copies src to dst unless this session already handled key.
// An existing regular dst with identical content is left alone; one with
// different content is recorded as a conflict instead of overwritten.
func (in *Installer) materialize(key, src, dst string) error {
	if !in.session.remember(key, dst) {
		return nil
	}

	if platform.Exists(dst) && !platform.IsSymlink(dst) {
		if platform.SameTree(src, dst) {
			in.log.Debug("already up to date", zap.String("item", key))
			return nil
		}
		in.log.Debug("conflict", zap.String("item", key), zap.String("target", dst))
		in.session.addConflict(Conflict{Key: key, Source: src, Target: dst})
		return nil
	}

	if err := platform.CopyPath(src, dst); err != nil {
		return fmt.Errorf("copying %s: %w", key, err)
	}
	in.log.Debug("materialized", zap.String("item", key), zap.String("path", dst))
	return nil
}

// Eligible keeps the items sel selects under tax.
func Eligible(items []catalog.Item, sel selection.Selection, tax selection.Taxonomy) []catalog.Item {
	var out []catalog.Item
	for _, it := range items {
		if sel.Eligible(it.Name, tax) {
			out = append(out, it)
		}
	}
	return out
}
