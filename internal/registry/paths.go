package registry

import (
	"path"
	"strings"
)

func firstElem(p string) string {
	p = strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, "\\", "/")), "./")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
