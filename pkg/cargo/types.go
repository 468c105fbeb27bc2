package cargo

// Package is one package record from `cargo metadata`.
//
// For the JSON data format, ref https://doc.rust-lang.org/cargo/commands/cargo-metadata.html
type Package struct {
	ID           string   `json:"id"`            // Opaque unique package id
	Name         string   `json:"name"`          // Package name (e.g., "serde")
	Version      string   `json:"version"`       // Semver version string
	License      string   `json:"license"`       // SPDX-style license expression (may be empty)
	LicenseFile  string   `json:"license_file"`  // Declared license file, path or URL (may be empty)
	Repository   string   `json:"repository"`    // Source repository URL (may be empty)
	ManifestPath string   `json:"manifest_path"` // Absolute path to the package's Cargo.toml
	Source       string   `json:"source"`        // Registry source id; empty for workspace-local packages
	Targets      []Target `json:"targets"`       // Build targets produced by this package
}

// Target is one build target (lib, bin, cdylib, ...) of a package.
type Target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// HasTargetKind reports whether any of the package's build targets has the
// given kind (e.g., "cdylib").
func (p *Package) HasTargetKind(kind string) bool {
	for _, t := range p.Targets {
		for _, k := range t.Kind {
			if k == kind {
				return true
			}
		}
	}
	return false
}

// Metadata is the parsed output of `cargo metadata` for the whole workspace.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	WorkspaceRoot    string    `json:"workspace_root"`
	Resolve          *Resolve  `json:"resolve"`
}

// Resolve is the fully-resolved dependency graph section of `cargo metadata`.
// It is only used for graph visualization; closure computation goes through
// the build plan instead, which reflects what actually gets compiled.
type Resolve struct {
	Nodes []ResolveNode `json:"nodes"`
}

// ResolveNode is one node of the resolve graph.
type ResolveNode struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
}

// BuildPlan is the parsed output of `cargo build --build-plan` for one
// package and one target triple. Only the inputs list matters here: it
// names the manifest path of every package participating in the build.
type BuildPlan struct {
	Inputs []string `json:"inputs"`
}
