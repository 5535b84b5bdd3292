package workspace

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kingrea/changeset/internal/config"
)

// IsListable reports whether pkg may be offered in a changeset. Ignored and
// unversioned packages are never listable; private packages only when the
// configuration asks for them to be versioned.
func IsListable(cfg config.Config, pkg Package) bool {
	if isIgnored(cfg.Ignore, pkg.Name) {
		return false
	}
	if pkg.Manifest.Private && !cfg.PrivatePackages.Version {
		return false
	}
	return strings.TrimSpace(pkg.Manifest.Version) != ""
}

// Listable filters pkgs down to the listable ones, keeping order.
func Listable(cfg config.Config, pkgs []Package) []Package {
	out := make([]Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if IsListable(cfg, pkg) {
			out = append(out, pkg)
		}
	}
	return out
}

func isIgnored(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if pattern == name {
			return true
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
