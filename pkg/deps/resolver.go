package deps

import (
	"context"
	"sort"

	"github.com/matzehuels/depsummary/pkg/cargo"
	"github.com/matzehuels/depsummary/pkg/errors"
)

// Planner issues build-plan queries. Satisfied by [cargo.Client]; tests
// substitute a fake.
type Planner interface {
	BuildPlan(ctx context.Context, pkg, target string) (*cargo.BuildPlan, error)
}

// Resolver computes build-time dependency closures.
type Resolver struct {
	ws      *Workspace
	planner Planner

	// Logger receives progress messages (optional).
	Logger func(format string, args ...any)
}

// NewResolver creates a Resolver over the given workspace.
func NewResolver(ws *Workspace, planner Planner) *Resolver {
	return &Resolver{ws: ws, planner: planner, Logger: func(string, ...any) {}}
}

// CompatibleTargets returns the effective target list for a root package.
// An empty target list means all targets we ship on.
//
// iOS cannot link cdylib artifacts, so iOS triples are dropped for cdylib
// roots even when explicitly requested.
func (r *Resolver) CompatibleTargets(name string, targets []string) ([]string, error) {
	id, ok := r.ws.Member(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "package %q is not a workspace member", name)
	}
	info, _ := r.ws.Package(id)

	if len(targets) == 0 {
		targets = AllTargets()
	}

	if info.BuildsKind("cdylib") {
		kept := targets[:0:0]
		for _, t := range targets {
			if !IsIOSTarget(t) {
				kept = append(kept, t)
			}
		}
		targets = kept
	}
	return targets, nil
}

// Resolve computes the dependency closure of one workspace member for the
// given targets: one build-plan query per effective target, unioning every
// package whose manifest appears as a build input, plus the extra packages
// managed outside of cargo.
func (r *Resolver) Resolve(ctx context.Context, name string, targets []string) (map[string]bool, error) {
	targets, err := r.CompatibleTargets(name, targets)
	if err != nil {
		return nil, err
	}

	closure := make(map[string]bool)
	for _, target := range targets {
		r.Logger("querying build plan for %s (%s)", name, target)
		plan, err := r.planner.BuildPlan(ctx, name, target)
		if err != nil {
			return nil, err
		}
		for _, manifest := range plan.Inputs {
			info, ok := r.ws.PackageByManifest(manifest)
			if !ok {
				return nil, errors.New(errors.ErrCodeMetadataInvalid,
					"build plan for %s (%s) references unknown manifest %s", name, target, manifest)
			}
			closure[info.ID] = true
		}
	}

	for id := range r.extraDependencies(targets, closure) {
		closure[id] = true
	}
	return closure, nil
}

// extraDependencies returns ids of externally-managed packages implied by
// (a) the platform families of the queried targets and (b) specific cargo
// packages already in the closure that are known to pull in non-cargo
// dependencies.
func (r *Resolver) extraDependencies(targets []string, closure map[string]bool) map[string]bool {
	extras := make(map[string]bool)
	for _, target := range targets {
		if IsAndroidTarget(target) {
			for _, id := range r.ws.policy.PlatformExtras["android"] {
				extras[id] = true
			}
		}
		if IsIOSTarget(target) {
			for _, id := range r.ws.policy.PlatformExtras["ios"] {
				extras[id] = true
			}
		}
	}
	for id := range closure {
		info, _ := r.ws.Package(id)
		for _, extra := range r.ws.policy.ExtraDependencies[info.Name] {
			extras[extra] = true
		}
	}
	return extras
}

// ResolveWorkspace computes the union of the closures of every workspace
// member, each resolved independently with the same target filter. The
// members are deliberately not resolved via a single combined build, so one
// project's enabled features cannot leak into another project's report.
//
// A full-workspace resolve is also the canonical consistency check for the
// policy table: any fixup entry for a package that no longer appears in the
// combined closure is a hard error, so stale entries cannot accumulate.
func (r *Resolver) ResolveWorkspace(ctx context.Context, targets []string) (map[string]bool, error) {
	closure := make(map[string]bool)
	for _, name := range r.ws.MemberNames() {
		sub, err := r.Resolve(ctx, name, targets)
		if err != nil {
			return nil, err
		}
		for id := range sub {
			closure[id] = true
		}
	}

	if err := r.checkUnusedFixups(closure); err != nil {
		return nil, err
	}
	return closure, nil
}

func (r *Resolver) checkUnusedFixups(closure map[string]bool) error {
	depNames := make(map[string]bool, len(closure))
	for id := range closure {
		info, _ := r.ws.Package(id)
		depNames[info.Name] = true
	}

	var unused []string
	for name := range r.ws.policy.Fixups {
		if !depNames[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return errors.New(errors.ErrCodeUnusedFixup, "unused dependency fixups in policy table: %v", unused)
	}
	return nil
}

// ExternalDependencies resolves the closure for the named package (or the
// whole workspace when name is empty) and returns the external packages in
// it, sorted by name then id for deterministic downstream output.
func (r *Resolver) ExternalDependencies(ctx context.Context, name string, targets []string) ([]*PackageInfo, error) {
	var (
		closure map[string]bool
		err     error
	)
	if name == "" {
		closure, err = r.ResolveWorkspace(ctx, targets)
	} else {
		closure, err = r.Resolve(ctx, name, targets)
	}
	if err != nil {
		return nil, err
	}

	var external []*PackageInfo
	for id := range closure {
		info, _ := r.ws.Package(id)
		if r.ws.IsExternal(info) {
			external = append(external, info)
		}
	}
	sort.Slice(external, func(i, j int) bool {
		if external[i].Name != external[j].Name {
			return external[i].Name < external[j].Name
		}
		return external[i].ID < external[j].ID
	})
	return external, nil
}
