package cli

import (
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsummary/pkg/cargo"
	"github.com/matzehuels/depsummary/pkg/deps"
	"github.com/matzehuels/depsummary/pkg/errors"
	"github.com/matzehuels/depsummary/pkg/report"
)

// graphCommand creates the graph command for visualizing the dependency
// closure that the report covers.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		pkg        string
		format     string
		output     string
		policyPath string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the dependency graph behind the license report",
		Long: `Render the dependency graph behind the license report.

The graph is restricted to the same dependency closure the report command
covers, so it can be used to see where a surprising license entry comes
from. Workspace members are highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pkg != "" {
				if err := errors.ValidateCrateName(pkg); err != nil {
					return err
				}
			}
			return c.runGraph(cmd, pkg, format, output, policyPath)
		},
	}

	cmd.Flags().StringVarP(&pkg, "package", "p", "", "restrict the graph to one workspace member")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&policyPath, "policy", "", "path to a policy file overriding the built-in one")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, pkg, format, output, policyPath string) error {
	gvFormat, err := graphFormat(format)
	if err != nil {
		return err
	}

	client := cargo.NewClient()
	md, ws, err := c.loadWorkspace(cmd, client, policyPath)
	if err != nil {
		return err
	}
	if md.Resolve == nil {
		return errors.New(errors.ErrCodeMetadataInvalid, "cargo metadata contains no resolve graph")
	}

	resolver := deps.NewResolver(ws, client)
	resolver.Logger = func(format string, args ...any) {
		c.Logger.Debug(fmt.Sprintf(format, args...))
	}

	spinner := newSpinnerWithContext(cmd.Context(), "Resolving dependency closure...")
	spinner.Start()
	var closure map[string]bool
	if pkg == "" {
		closure, err = resolver.ResolveWorkspace(cmd.Context(), nil)
	} else {
		closure, err = resolver.Resolve(cmd.Context(), pkg, nil)
	}
	if err != nil {
		spinner.StopWithError("Resolving dependencies failed")
		return err
	}
	spinner.Stop()

	highlight := make(map[string]bool)
	for _, name := range ws.MemberNames() {
		if id, ok := ws.Member(name); ok {
			highlight[id] = true
		}
	}

	dot := report.ToDOT(md.Resolve, closure, report.DotOptions{
		Label: func(id string) string {
			if info, ok := ws.Package(id); ok {
				return info.Name + " " + info.Version
			}
			return id
		},
		Highlight: highlight,
	})

	if format == "dot" {
		return writeOutput(output, []byte(dot))
	}

	rendered, err := report.RenderGraph(cmd.Context(), dot, gvFormat)
	if err != nil {
		return err
	}
	return writeOutput(output, rendered)
}

func graphFormat(format string) (graphviz.Format, error) {
	switch format {
	case "dot":
		return graphviz.XDOT, nil
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported graph format %q (expected dot, svg, or png)", format)
}
