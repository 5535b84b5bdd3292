// Package changeset defines the release-intent record and writes it to the
// workspace's .changeset folder as a markdown document with YAML frontmatter.
package changeset

import (
	"errors"
	"fmt"
	"strings"
)

// BumpType is the magnitude of change signaled for a package's next release.
type BumpType string

const (
	BumpPatch BumpType = "patch"
	BumpMinor BumpType = "minor"
	BumpMajor BumpType = "major"
)

// BumpTypes lists the severities from least to most significant.
var BumpTypes = []BumpType{BumpPatch, BumpMinor, BumpMajor}

// ErrInvalidBumpType is returned when a severity string is not patch/minor/major.
var ErrInvalidBumpType = errors.New("changeset: invalid bump type")

// ParseBumpType converts user input into a BumpType.
func ParseBumpType(value string) (BumpType, error) {
	bump := BumpType(strings.ToLower(strings.TrimSpace(value)))
	if !bump.Valid() {
		return "", fmt.Errorf("%w %q (expected patch, minor or major)", ErrInvalidBumpType, value)
	}
	return bump, nil
}

// Valid reports whether b is one of the known severities.
func (b BumpType) Valid() bool {
	switch b {
	case BumpPatch, BumpMinor, BumpMajor:
		return true
	}
	return false
}

func (b BumpType) String() string {
	return string(b)
}

// Release pairs a package with the severity it should be released at.
type Release struct {
	Name string
	Type BumpType
}

// Changeset is a single release intent: packages, severities and a summary.
type Changeset struct {
	Summary  string
	Releases []Release
}

// HasMajor reports whether any release is a major bump.
func (c Changeset) HasMajor() bool {
	for _, release := range c.Releases {
		if release.Type == BumpMajor {
			return true
		}
	}
	return false
}

// ByType returns the package names released at the given severity, in order.
func (c Changeset) ByType(bump BumpType) []string {
	var names []string
	for _, release := range c.Releases {
		if release.Type == bump {
			names = append(names, release.Name)
		}
	}
	return names
}

// Validate ensures every release names a package once with a known severity.
func (c Changeset) Validate() error {
	seen := make(map[string]struct{}, len(c.Releases))
	for _, release := range c.Releases {
		if strings.TrimSpace(release.Name) == "" {
			return fmt.Errorf("changeset: release with empty package name")
		}
		if !release.Type.Valid() {
			return fmt.Errorf("%w %q for %s", ErrInvalidBumpType, release.Type, release.Name)
		}
		if _, dup := seen[release.Name]; dup {
			return fmt.Errorf("changeset: duplicate release for %s", release.Name)
		}
		seen[release.Name] = struct{}{}
	}
	return nil
}
