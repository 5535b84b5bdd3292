// internal/config/config.go
//
// This package handles configuration and the .changeset directory structure.
// Every workspace that records changesets gets a .changeset/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ChangesetDir is the name of the directory we create in each workspace
	ChangesetDir = ".changeset"
	// ConfigFile lives inside ChangesetDir
	ConfigFile = "config.yaml"

	defaultBaseBranch = "main"
)

// Commit message strategies understood by the commit package.
const (
	CommitModeDefault  = "default"
	CommitModeTemplate = "template"
)

const defaultConfigYAML = `# changeset configuration
baseBranch: main

# Package names (doublestar globs) that never show up in the package picker.
ignore: []

privatePackages:
  version: true

# Automatically commit new changesets. mode is "default" or "template".
commit:
  enabled: false
  mode: default
  skipCI: add
`

const readmeMarkdown = `# Changesets

This folder holds changesets: small markdown files that describe which
packages should be released and how. Run ` + "`changeset`" + ` in the workspace root
to record a new one.
`

// SkipCI controls when the "[skip ci]" trailer is added to generated commits.
// The YAML value may be a bool or one of "add"/"version".
type SkipCI string

const (
	SkipCINone    SkipCI = ""
	SkipCIAdd     SkipCI = "add"
	SkipCIVersion SkipCI = "version"
	SkipCIAlways  SkipCI = "true"
)

// UnmarshalYAML accepts booleans as well as strings.
func (s *SkipCI) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("skipCI must be a scalar")
	}
	switch strings.ToLower(strings.TrimSpace(node.Value)) {
	case "", "false", "no", "off":
		*s = SkipCINone
	case "true", "yes", "on":
		*s = SkipCIAlways
	default:
		*s = SkipCI(strings.ToLower(strings.TrimSpace(node.Value)))
	}
	return nil
}

// Author overrides the git identity used for generated commits.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// IsZero reports whether no identity was configured.
func (a Author) IsZero() bool {
	return a.Name == "" && a.Email == ""
}

// CommitConfig captures the automatic commit preferences.
type CommitConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Mode     string `yaml:"mode,omitempty"`
	SkipCI   SkipCI `yaml:"skipCI,omitempty"`
	Template string `yaml:"template,omitempty"`
	Author   Author `yaml:"author,omitempty"`
}

// PrivatePackages controls how packages marked "private" are treated.
type PrivatePackages struct {
	Version bool `yaml:"version"`
}

// Config models .changeset/config.yaml plus the resolved workspace root.
type Config struct {
	// Root is the workspace root the configuration was loaded from
	Root string `yaml:"-"`

	BaseBranch      string          `yaml:"baseBranch"`
	Ignore          []string        `yaml:"ignore,omitempty"`
	PrivatePackages PrivatePackages `yaml:"privatePackages"`
	Commit          CommitConfig    `yaml:"commit"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseBranch:      defaultBaseBranch,
		PrivatePackages: PrivatePackages{Version: true},
		Commit: CommitConfig{
			Mode:   CommitModeDefault,
			SkipCI: SkipCIAdd,
		},
	}
}

// Dir returns the path to the .changeset directory.
func (c Config) Dir() string {
	return filepath.Join(c.Root, ChangesetDir)
}

// Path returns the on-disk location for the config file.
func (c Config) Path() string {
	return filepath.Join(c.Dir(), ConfigFile)
}

// Load reads root/.changeset/config.yaml. A missing file yields defaults.
func Load(root string) (Config, error) {
	cfg := Default()
	cfg.Root = root
	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", cfg.Path(), err)
	}
	if err := cfg.decode(data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", ConfigFile, err)
	}
	c.applyDefaults()
	c.normalize()
	if err := c.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.BaseBranch) == "" {
		c.BaseBranch = defaultBaseBranch
	}
	if strings.TrimSpace(c.Commit.Mode) == "" {
		c.Commit.Mode = CommitModeDefault
	}
}

func (c *Config) normalize() {
	c.BaseBranch = strings.TrimSpace(c.BaseBranch)
	c.Commit.Mode = strings.ToLower(strings.TrimSpace(c.Commit.Mode))
	c.Commit.Author.Name = strings.TrimSpace(c.Commit.Author.Name)
	c.Commit.Author.Email = strings.TrimSpace(c.Commit.Author.Email)
	ignore := make([]string, 0, len(c.Ignore))
	for _, pattern := range c.Ignore {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			ignore = append(ignore, trimmed)
		}
	}
	c.Ignore = ignore
}

func (c Config) validate() error {
	switch c.Commit.Mode {
	case CommitModeDefault:
	case CommitModeTemplate:
		if strings.TrimSpace(c.Commit.Template) == "" {
			return fmt.Errorf("commit.template is required when commit.mode is %q", CommitModeTemplate)
		}
	default:
		return fmt.Errorf("unknown commit.mode %q", c.Commit.Mode)
	}
	switch c.Commit.SkipCI {
	case SkipCINone, SkipCIAdd, SkipCIVersion, SkipCIAlways:
	default:
		return fmt.Errorf("unknown commit.skipCI %q", c.Commit.SkipCI)
	}
	if c.Commit.Author.Email != "" && c.Commit.Author.Name == "" {
		return fmt.Errorf("commit.author.name is required when an email is set")
	}
	return nil
}

// Init creates the .changeset directory with a default config and README.
// Existing files are left untouched. It reports whether the config file was created.
func Init(root string) (bool, error) {
	dir := filepath.Join(root, ChangesetDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("config: ensure %s: %w", ChangesetDir, err)
	}
	created, err := ensureFile(filepath.Join(dir, ConfigFile), defaultConfigYAML)
	if err != nil {
		return false, err
	}
	if _, err := ensureFile(filepath.Join(dir, "README.md"), readmeMarkdown); err != nil {
		return false, err
	}
	return created, nil
}

func ensureFile(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
