// Package install materializes eligible catalog items into a project.
//
// Customizable items (project-sensitive, always-copy, or everything in
// copy mode) get a single physical copy under the project's intermediate
// directory, shared by every tool through relative symlinks. Other generic
// items in symlink mode are linked straight into the stable mirror so they
// follow catalog updates.
//
// Existing intermediate copies and config files that differ from the
// catalog are never overwritten silently: they are collected as conflicts
// during the pass and resolved together afterwards.
package install
