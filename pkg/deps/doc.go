// Package deps builds the workspace dependency model.
//
// # Overview
//
// The package has three responsibilities:
//
//  1. [Workspace] indexes the metadata graph from cargo, drops deny-listed
//     packages, applies the hand-maintained fixup table (asserting that each
//     recorded expected value still matches, so upstream drift is caught
//     instead of silently overwritten), and synthesizes records for
//     dependencies managed outside of cargo.
//  2. [Resolver] computes the build-time dependency closure of a package by
//     issuing one build-plan query per target triple and unioning the
//     manifest paths referenced, then augments the closure with
//     externally-managed dependencies keyed by platform family and by
//     specific package names.
//  3. The external filter ([Workspace.IsExternal]) decides which packages
//     are reportable at all: workspace-local packages are excluded.
//
// Closures are computed fresh per query; nothing is cached across runs.
package deps
