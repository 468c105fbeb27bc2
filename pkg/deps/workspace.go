package deps

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/depsummary/pkg/cargo"
	"github.com/matzehuels/depsummary/pkg/errors"
)

// PackageInfo is the tool's view of one dependency. It is built either from
// a cargo metadata record or synthesized from the policy's extra-package
// table; both shapes are identical downstream.
type PackageInfo struct {
	ID           string // Unique package id (policy key for synthetic packages)
	Name         string
	Version      string
	ManifestPath string // Empty for synthetic packages
	License      string // SPDX-style expression, post-fixup
	LicenseFile  string // Declared license file (path or URL), post-fixup
	LicenseText  string // Pre-embedded license text (synthetic packages only)
	Repository   string
	Source       string   // Cargo source id; empty for workspace-local packages
	TargetKinds  []string // Build target kinds (lib, cdylib, ...)
	Synthetic    bool     // True for externally-managed packages
}

// BuildsKind reports whether the package produces a build artifact of the
// given kind.
func (p *PackageInfo) BuildsKind(kind string) bool {
	for _, k := range p.TargetKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Workspace is the indexed package metadata graph for the whole workspace,
// with the correction table already applied.
type Workspace struct {
	root          string
	policy        *Policy
	byID          map[string]*PackageInfo
	byManifest    map[string]*PackageInfo
	membersByName map[string]string // workspace member name -> package id
}

// NewWorkspace indexes cargo metadata, applying the deny list, the fixup
// table, and the synthetic extra packages from the policy.
//
// Fixups are assert-and-replace: if the observed field value differs from
// the recorded expected value, construction fails with FIXUP_CHECK_FAILED.
// That failure mode is deliberate. It means upstream metadata changed and
// the table entry needs human re-review, never a silent overwrite.
func NewWorkspace(md *cargo.Metadata, policy *Policy) (*Workspace, error) {
	ws := &Workspace{
		root:          md.WorkspaceRoot,
		policy:        policy,
		byID:          make(map[string]*PackageInfo),
		byManifest:    make(map[string]*PackageInfo),
		membersByName: make(map[string]string),
	}

	for _, pkg := range md.Packages {
		if policy.excluded(pkg.Name) {
			continue
		}

		info := fromCargo(pkg)
		if err := ws.applyFixups(info); err != nil {
			return nil, err
		}

		if _, dup := ws.byID[info.ID]; dup {
			return nil, errors.New(errors.ErrCodeMetadataInvalid, "duplicate package id %q in cargo metadata", info.ID)
		}
		ws.byID[info.ID] = info

		if _, dup := ws.byManifest[info.ManifestPath]; dup {
			return nil, errors.New(errors.ErrCodeMetadataInvalid, "duplicate manifest path %q in cargo metadata", info.ManifestPath)
		}
		ws.byManifest[info.ManifestPath] = info
	}

	// Synthetic records for things managed outside of cargo. These do not
	// participate in fixup checking; the policy table is already the
	// hand-audited source of truth for them.
	for id, extra := range policy.ExtraPackages {
		if _, dup := ws.byID[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidPolicy, "extra package id %q collides with a cargo package", id)
		}
		ws.byID[id] = &PackageInfo{
			ID:          id,
			Name:        extra.Name,
			License:     extra.License,
			LicenseFile: extra.LicenseFile,
			LicenseText: extra.LicenseText,
			Repository:  extra.Repository,
			Synthetic:   true,
		}
	}

	for _, id := range md.WorkspaceMembers {
		info, ok := ws.byID[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeMetadataInvalid, "workspace member %q has no package record", id)
		}
		if _, dup := ws.membersByName[info.Name]; dup {
			return nil, errors.New(errors.ErrCodeMetadataInvalid, "duplicate workspace member name %q", info.Name)
		}
		ws.membersByName[info.Name] = id
	}

	return ws, nil
}

func fromCargo(pkg cargo.Package) *PackageInfo {
	var kinds []string
	for _, t := range pkg.Targets {
		kinds = append(kinds, t.Kind...)
	}
	return &PackageInfo{
		ID:           pkg.ID,
		Name:         pkg.Name,
		Version:      pkg.Version,
		ManifestPath: pkg.ManifestPath,
		License:      pkg.License,
		LicenseFile:  pkg.LicenseFile,
		Repository:   pkg.Repository,
		Source:       pkg.Source,
		TargetKinds:  kinds,
	}
}

// applyFixups overlays the correction table entries for one package,
// checking each recorded expected value first.
func (ws *Workspace) applyFixups(info *PackageInfo) error {
	fields, ok := ws.policy.Fixups[info.Name]
	if !ok {
		return nil
	}

	for _, field := range fixupFields {
		change, ok := fields[field]
		if !ok {
			continue
		}

		current := fixupField(info, field)
		if *current != change.Check {
			return errors.New(errors.ErrCodeFixupCheck,
				"fixup check failed for %s.%s: %q != %q", info.Name, field, *current, change.Check)
		}
		if change.Fixup != nil {
			*current = *change.Fixup
		}
	}
	return nil
}

func fixupField(info *PackageInfo, field string) *string {
	switch field {
	case "license":
		return &info.License
	case "license_file":
		return &info.LicenseFile
	default: // "repository"; unknown fields are rejected at policy load
		return &info.Repository
	}
}

// Package returns the package record for an id.
func (ws *Workspace) Package(id string) (*PackageInfo, bool) {
	info, ok := ws.byID[id]
	return info, ok
}

// PackageByManifest returns the package whose Cargo.toml lives at path.
func (ws *Workspace) PackageByManifest(path string) (*PackageInfo, bool) {
	info, ok := ws.byManifest[path]
	return info, ok
}

// Member returns the package id of the named workspace member.
func (ws *Workspace) Member(name string) (string, bool) {
	id, ok := ws.membersByName[name]
	return id, ok
}

// MemberNames returns the names of all workspace members, sorted.
func (ws *Workspace) MemberNames() []string {
	names := make([]string, 0, len(ws.membersByName))
	for name := range ws.membersByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Root returns the workspace root path.
func (ws *Workspace) Root() string {
	return ws.root
}

// IsExternal reports whether a package is an external dependency, i.e. one
// that should appear in the report. A package is external if it came from a
// registry (non-empty source), if it is a synthetic externally-managed
// package, or if its manifest lives outside the workspace root. Everything
// else is a workspace-local package and is silently excluded.
func (ws *Workspace) IsExternal(info *PackageInfo) bool {
	if info.Synthetic {
		return true
	}
	if info.Source != "" {
		return true
	}
	rel, err := filepath.Rel(ws.root, info.ManifestPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	return false
}
