package install

import (
	"path/filepath"

	"github.com/mvagnon/agents/internal/catalog"
)

// StoragePath returns where the intermediate copy of an item lives.
// Project-sensitive and always-copy items sit directly under their
// category; other copied items under generic/<category>, the only part of
// the intermediate directory that upgrades reconcile.
func StoragePath(intermediateDir string, item catalog.Item, alwaysCopy bool) string {
	if item.Sensitivity == catalog.ProjectSensitive || alwaysCopy {
		return filepath.Join(intermediateDir, string(item.Category), item.Name)
	}
	return filepath.Join(GenericDir(intermediateDir, item.Category), item.Name)
}

// GenericDir returns <intermediate>/generic/<category>.
func GenericDir(intermediateDir string, cat catalog.Category) string {
	return filepath.Join(intermediateDir, catalog.GenericDir, string(cat))
}

// RootFilePath returns the intermediate copy of a catalog root file.
func RootFilePath(intermediateDir, name string) string {
	return filepath.Join(intermediateDir, name)
}
