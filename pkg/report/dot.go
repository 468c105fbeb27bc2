package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depsummary/pkg/cargo"
	"github.com/matzehuels/depsummary/pkg/errors"
)

// DotOptions configures dependency graph rendering.
type DotOptions struct {
	// Label maps a package id to its node label. When nil, the raw id is used.
	Label func(id string) string
	// Highlight marks node ids drawn with emphasis (the workspace members).
	Highlight map[string]bool
}

// ToDOT converts the resolved dependency graph to Graphviz DOT format,
// restricted to the packages in the closure. Edges to packages outside the
// closure (feature-gated or target-gated dependencies) are dropped with
// their targets. Node and edge order is sorted so the output is stable.
func ToDOT(resolve *cargo.Resolve, closure map[string]bool, opts DotOptions) string {
	label := opts.Label
	if label == nil {
		label = func(id string) string { return id }
	}

	nodes := make([]cargo.ResolveNode, 0, len(resolve.Nodes))
	for _, n := range resolve.Nodes {
		if closure[n.ID] {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", label(n.ID))}
		if opts.Highlight[n.ID] {
			attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		deps := append([]string(nil), n.Dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			if closure[dep] {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, dep)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraph renders a DOT graph to the requested Graphviz format.
func RenderGraph(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "initializing graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parsing DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "rendering graph")
	}
	return buf.Bytes(), nil
}
