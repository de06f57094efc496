// Package platform provides the filesystem primitives the installer is
// built on: relative and absolute symlinks, recursive copies, content
// comparison and best-effort checks. On Windows symlinks fall back to
// copies with a .target sidecar when developer mode is unavailable.
package platform
