package cli

import (
	"os"

	"github.com/mvagnon/agents/internal/catalog"
	"github.com/mvagnon/agents/internal/config"
	"github.com/mvagnon/agents/internal/prompt"
	"github.com/mvagnon/agents/internal/registry"
	"github.com/mvagnon/agents/internal/stable"
	"go.uber.org/zap"
)

// openMirror resolves the stable mirror from --stable-dir and config.
func openMirror() (*stable.Mirror, error) {
	base, err := stable.ResolveBase(stableDirFlag)
	if err != nil {
		return nil, err
	}
	return stable.New(base, logger), nil
}

// syncStable refreshes the stable mirror from the resolved catalog source.
// Every command runs it first; an unchanged catalog is a no-op.
func syncStable() (*stable.Mirror, stable.Result, error) {
	mirror, err := openMirror()
	if err != nil {
		return nil, stable.Result{}, err
	}
	src, err := catalog.ResolveSource(catalogFlag)
	if err != nil {
		return nil, stable.Result{}, err
	}
	logger.Debug("syncing stable mirror", zap.String("source", src.Origin), zap.String("base", mirror.Base))

	res, err := mirror.Sync(src.FS, catalogVersion())
	if err != nil {
		return nil, res, err
	}
	return mirror, res, nil
}

// catalogVersion is the version recorded in the stable marker. Development
// builds leave the marker alone.
func catalogVersion() string {
	if buildVersion == "" || buildVersion == "dev" {
		return ""
	}
	return buildVersion
}

func loadRegistry() (*registry.Registry, error) {
	return registry.LoadWithOverride(config.Get(config.KeyRegistryFile))
}

func newPrompter() prompt.Prompter {
	return prompt.NewTerminal(os.Stdin, os.Stdout)
}
