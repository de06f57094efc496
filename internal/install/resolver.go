package install

import (
	"fmt"
	"path/filepath"

	"github.com/mvagnon/agents/internal/platform"
	"github.com/mvagnon/agents/internal/prompt"
	"go.uber.org/zap"
)

// Resolution lists conflict targets, relative to the project root, by
// outcome.
type Resolution struct {
	Overwritten []string `json:"overwritten" yaml:"overwritten"`
	Kept        []string `json:"kept" yaml:"kept"`
}

// Resolver asks what to do with each conflict and applies the answers.
type Resolver struct {
	Prompter    prompt.Prompter
	ProjectRoot string
	// AssumeDefaults keeps every existing file without asking.
	AssumeDefaults bool
	Log            *zap.Logger
}

// Resolve asks once per conflict whether to overwrite (default no), then
// applies every accepted overwrite. The caller must have stopped its
// spinner. On cancellation nothing is applied and prompt.ErrCancelled is
// returned.
func (r *Resolver) Resolve(conflicts []Conflict) (Resolution, error) {
	res := Resolution{Overwritten: []string{}, Kept: []string{}}
	if len(conflicts) == 0 {
		return res, nil
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	var accepted []Conflict
	for _, c := range conflicts {
		rel := r.relative(c.Target)
		if r.AssumeDefaults {
			res.Kept = append(res.Kept, rel)
			continue
		}
		overwrite, err := r.Prompter.Confirm(fmt.Sprintf("%s differs from the catalog. Overwrite it?", rel), false)
		if err != nil {
			return Resolution{}, err
		}
		if overwrite {
			accepted = append(accepted, c)
			res.Overwritten = append(res.Overwritten, rel)
		} else {
			res.Kept = append(res.Kept, rel)
		}
	}

	if len(accepted) == 0 {
		return res, nil
	}

	sp := r.Prompter.Spinner()
	sp.Start("Applying overwrites")
	for _, c := range accepted {
		if err := platform.CopyPath(c.Source, c.Target); err != nil {
			sp.Stop("Overwrite failed")
			return res, fmt.Errorf("overwriting %s: %w", r.relative(c.Target), err)
		}
		log.Debug("overwritten", zap.String("item", c.Key), zap.String("target", c.Target))
	}
	sp.Stop(fmt.Sprintf("%d file(s) overwritten", len(accepted)))
	return res, nil
}

func (r *Resolver) relative(target string) string {
	if r.ProjectRoot == "" {
		return target
	}
	rel, err := filepath.Rel(r.ProjectRoot, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
