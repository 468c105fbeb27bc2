// Package report renders resolved license records into the output formats:
// a markdown summary document, a JSON record list, and a Graphviz view of
// the dependency graph.
package report

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/depsummary/pkg/license"
)

// Group is a set of dependencies redistributed under identical license text.
type Group struct {
	// Kind is the license identifier shared by all members.
	Kind string
	// Key is the deduplication key: the kind alone for licenses with shared
	// boilerplate text, otherwise kind plus a content hash of the text.
	Key string
	// Members are the dependencies in the group, sorted by name.
	Members []*license.Info
}

// sharedBoilerplate marks license kinds whose text is known to be identical
// across all packages using them, so they dedupe on kind alone. The copies
// are trusted rather than compared; differences are punctuation-level.
func sharedBoilerplate(kind string) bool {
	switch kind {
	case "MPL-2.0", "Apache-2.0", "OpenSSL":
		return true
	}
	return false
}

// groupKey computes the deduplication key for one record. Non-boilerplate
// license texts carry copyright notices, so they only dedupe when the text
// matches exactly modulo whitespace (line rewrapping must not split groups).
func groupKey(info *license.Info) string {
	if sharedBoilerplate(info.License) {
		return info.License
	}
	stripped := strings.Join(strings.Fields(info.LicenseText), "")
	return fmt.Sprintf("%s:%016x", info.License, xxhash.Sum64String(stripped))
}

// BuildGroups dedupes records by shared license text and returns the groups
// in render order: license preference rank first, then the sorted member
// name lists. The ordering is a pure function of the record set, so the
// rendered document is byte-stable across runs and input permutations.
func BuildGroups(infos []*license.Info) []*Group {
	byKey := make(map[string]*Group)
	for _, info := range infos {
		key := groupKey(info)
		g, ok := byKey[key]
		if !ok {
			g = &Group{Kind: info.License, Key: key}
			byKey[key] = g
		}
		g.Members = append(g.Members, info)
	}

	groups := make([]*Group, 0, len(byKey))
	for _, g := range byKey {
		sort.Slice(g.Members, func(i, j int) bool { return g.Members[i].Name < g.Members[j].Name })
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		ri, rj := license.PreferenceIndex(groups[i].Kind), license.PreferenceIndex(groups[j].Kind)
		if ri != rj {
			return ri < rj
		}
		return slices.Compare(memberNames(groups[i]), memberNames(groups[j])) < 0
	})
	return groups
}

func memberNames(g *Group) []string {
	names := make([]string, len(g.Members))
	for i, info := range g.Members {
		names[i] = info.Name
	}
	return names
}
