// Package workspace enumerates the packages of a JavaScript-style monorepo.
//
// The workspace root is the nearest ancestor that declares workspaces, either
// through pnpm-workspace.yaml or the "workspaces" field of package.json. A
// directory with a plain package.json and no workspaces is treated as a
// single-package repository.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

const (
	manifestFile = "package.json"
	pnpmFile     = "pnpm-workspace.yaml"
	yarnLockFile = "yarn.lock"
)

// Tool identifies how the workspace declares its packages.
type Tool string

const (
	ToolNPM  Tool = "npm"
	ToolYarn Tool = "yarn"
	ToolPNPM Tool = "pnpm"
	ToolRoot Tool = "root"
)

// ErrNoManifest is returned when no package.json exists at or above the start directory.
var ErrNoManifest = errors.New("workspace: no package.json found")

// Manifest is the subset of package.json the workflow reads.
type Manifest struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Private    bool            `json:"private"`
	Workspaces json.RawMessage `json:"workspaces,omitempty"`
}

// Package is a single workspace member.
type Package struct {
	Name string
	// Dir is the absolute package directory
	Dir string
	// RelDir is Dir relative to the workspace root, slash separated ("." for the root)
	RelDir   string
	Manifest Manifest
}

// Packages is the read-only snapshot produced once per invocation.
type Packages struct {
	Tool     Tool
	Root     string
	Packages []Package
}

// Names returns the package names in discovery order.
func (p Packages) Names() []string {
	names := make([]string, 0, len(p.Packages))
	for _, pkg := range p.Packages {
		names = append(names, pkg.Name)
	}
	return names
}

// Lookup finds a package by manifest name.
func (p Packages) Lookup(name string) (Package, bool) {
	for _, pkg := range p.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return Package{}, false
}

// Load discovers the workspace containing dir.
func Load(dir string) (Packages, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return Packages{}, fmt.Errorf("workspace: resolve %s: %w", dir, err)
	}
	root, tool, patterns, err := findRoot(start)
	if err != nil {
		return Packages{}, err
	}
	if tool == ToolRoot {
		pkg, err := readPackage(root, root)
		if err != nil {
			return Packages{}, err
		}
		return Packages{Tool: tool, Root: root, Packages: []Package{pkg}}, nil
	}
	dirs, err := expandPatterns(root, patterns)
	if err != nil {
		return Packages{}, err
	}
	pkgs := make([]Package, 0, len(dirs))
	seen := map[string]string{}
	for _, rel := range dirs {
		pkg, err := readPackage(root, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return Packages{}, err
		}
		if other, dup := seen[pkg.Name]; dup {
			return Packages{}, fmt.Errorf("workspace: package %q is declared in both %s and %s", pkg.Name, other, pkg.RelDir)
		}
		seen[pkg.Name] = pkg.RelDir
		pkgs = append(pkgs, pkg)
	}
	return Packages{Tool: tool, Root: root, Packages: pkgs}, nil
}

// findRoot walks upward looking for a workspace declaration. The nearest
// plain package.json is remembered as the single-package fallback.
func findRoot(start string) (string, Tool, []string, error) {
	fallback := ""
	for current := start; ; {
		if patterns, ok, err := readPNPMWorkspace(current); err != nil {
			return "", "", nil, err
		} else if ok {
			return current, ToolPNPM, patterns, nil
		}
		manifest, ok, err := readManifest(filepath.Join(current, manifestFile))
		if err != nil {
			return "", "", nil, err
		}
		if ok {
			patterns, err := workspacePatterns(manifest.Workspaces)
			if err != nil {
				return "", "", nil, fmt.Errorf("workspace: %s: %w", filepath.Join(current, manifestFile), err)
			}
			if patterns != nil {
				return current, npmOrYarn(current), patterns, nil
			}
			if fallback == "" {
				fallback = current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	if fallback == "" {
		return "", "", nil, fmt.Errorf("%w from %s", ErrNoManifest, start)
	}
	return fallback, ToolRoot, nil, nil
}

func npmOrYarn(root string) Tool {
	if _, err := os.Stat(filepath.Join(root, yarnLockFile)); err == nil {
		return ToolYarn
	}
	return ToolNPM
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

func readPNPMWorkspace(dir string) ([]string, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, pnpmFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("workspace: read %s: %w", pnpmFile, err)
	}
	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, false, fmt.Errorf("workspace: parse %s: %w", pnpmFile, err)
	}
	return ws.Packages, true, nil
}

// workspacePatterns accepts both `"workspaces": [...]` and
// `"workspaces": {"packages": [...]}`. A nil result means no workspaces.
func workspacePatterns(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid workspaces field: %w", err)
	}
	if obj.Packages == nil {
		obj.Packages = []string{}
	}
	return obj.Packages, nil
}

// expandPatterns resolves workspace globs to slash-separated directories
// relative to root that contain a package.json.
func expandPatterns(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	var include, exclude []string
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		pattern = strings.TrimPrefix(path.Clean(strings.TrimPrefix(pattern, "./")), "/")
		if strings.HasPrefix(pattern, "!") {
			exclude = append(exclude, strings.TrimPrefix(strings.TrimPrefix(pattern, "!"), "./"))
			continue
		}
		include = append(include, pattern)
	}
	found := map[string]struct{}{}
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, path.Join(pattern, manifestFile))
		if err != nil {
			return nil, fmt.Errorf("workspace: expand %q: %w", pattern, err)
		}
		for _, match := range matches {
			dir := path.Dir(match)
			if dir == "." || inNodeModules(dir) || excluded(dir, exclude) {
				continue
			}
			found[dir] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func excluded(dir string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, dir); ok {
			return true
		}
	}
	return false
}

func inNodeModules(dir string) bool {
	for _, segment := range strings.Split(dir, "/") {
		if segment == "node_modules" {
			return true
		}
	}
	return false
}

func readPackage(root, dir string) (Package, error) {
	manifestPath := filepath.Join(dir, manifestFile)
	manifest, ok, err := readManifest(manifestPath)
	if err != nil {
		return Package{}, err
	}
	if !ok {
		return Package{}, fmt.Errorf("%w in %s", ErrNoManifest, dir)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return Package{}, fmt.Errorf("workspace: %s has no name", manifestPath)
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return Package{}, fmt.Errorf("workspace: relative path for %s: %w", dir, err)
	}
	return Package{
		Name:     manifest.Name,
		Dir:      dir,
		RelDir:   filepath.ToSlash(rel),
		Manifest: manifest,
	}, nil
}

func readManifest(path string) (Manifest, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, false, nil
		}
		return Manifest{}, false, fmt.Errorf("workspace: read %s: %w", path, err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, false, fmt.Errorf("workspace: parse %s: %w", path, err)
	}
	return manifest, true, nil
}
