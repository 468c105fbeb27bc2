// Package cargo wraps the two cargo subcommands this tool depends on.
//
// # Collaborators
//
//   - `cargo metadata --locked --format-version 1` returns the full package
//     metadata graph for the workspace, including the resolve graph.
//   - `cargo +nightly -Z unstable-options build --build-plan` lists, per
//     package and target triple, the manifest paths of every build input.
//
// Both are treated as external collaborators returning structured JSON.
// A non-zero exit from either command is fatal: there is no fallback
// source for this data, and a partial answer would produce an incomplete
// compliance report.
//
// The [Runner] interface isolates subprocess execution so tests can feed
// canned JSON documents instead of shelling out.
package cargo
