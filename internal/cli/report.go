package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsummary/pkg/cargo"
	"github.com/matzehuels/depsummary/pkg/deps"
	"github.com/matzehuels/depsummary/pkg/errors"
	"github.com/matzehuels/depsummary/pkg/httputil"
	"github.com/matzehuels/depsummary/pkg/license"
	"github.com/matzehuels/depsummary/pkg/report"
)

// reportOptions collects the flag values of the report command.
type reportOptions struct {
	pkg        string
	targets    []string
	allAndroid bool
	allIOS     bool
	jsonOut    bool
	checkFile  string
	output     string
	policyPath string
}

// expandTargets flattens the target flags into the final target list and
// validates the combination. Targets narrow the closure of one package, so
// they require a package name.
func (o *reportOptions) expandTargets() ([]string, error) {
	targets := append([]string(nil), o.targets...)
	if o.allAndroid {
		targets = append(targets, deps.AndroidTargets...)
	}
	if o.allIOS {
		targets = append(targets, deps.IOSTargets...)
	}

	if len(targets) > 0 && o.pkg == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a package name is required when specifying targets")
	}
	if o.pkg != "" {
		if err := errors.ValidateCrateName(o.pkg); err != nil {
			return nil, err
		}
	}
	for _, target := range targets {
		if err := errors.ValidateTargetTriple(target); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

// reportCommand creates the report command, the tool's main operation.
func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize third-party dependencies and their licenses",
		Long: `Summarize third-party dependencies and their licenses.

With no flags, the report covers the union of the dependencies of every
workspace member across all supported build targets. Use --package to narrow
it to one member, and --target (or the --all-*-targets shorthands) to narrow
that further to specific platforms.

The default output is a markdown document suitable for shipping alongside
binary distributions. Use --json for machine-readable records, and --check
in CI to fail when dependency licenses have drifted from a committed report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := opts.expandTargets()
			if err != nil {
				return err
			}
			return c.runReport(cmd, opts, targets)
		},
	}

	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "restrict the report to one workspace member")
	cmd.Flags().StringArrayVar(&opts.targets, "target", nil, "build target triple (repeatable; requires --package)")
	cmd.Flags().BoolVar(&opts.allAndroid, "all-android-targets", false, "include all android build targets")
	cmd.Flags().BoolVar(&opts.allIOS, "all-ios-targets", false, "include all iOS build targets")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output JSON records rather than a markdown document")
	cmd.Flags().StringVar(&opts.checkFile, "check", "", "suppress output, instead checking that it matches the given file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.policyPath, "policy", "", "path to a policy file overriding the built-in one")

	return cmd
}

func (c *CLI) runReport(cmd *cobra.Command, opts reportOptions, targets []string) error {
	client := cargo.NewClient()
	_, ws, err := c.loadWorkspace(cmd, client, opts.policyPath)
	if err != nil {
		return err
	}

	infos, err := c.collectLicenses(cmd.Context(), ws, client, opts.pkg, targets)
	if err != nil {
		return err
	}

	var out []byte
	if opts.jsonOut {
		out, err = report.RenderJSON(infos)
	} else {
		var doc string
		doc, err = report.RenderMarkdown(infos)
		out = []byte(doc)
	}
	if err != nil {
		return err
	}

	if opts.checkFile != "" {
		return checkAgainstFile(opts.checkFile, out)
	}
	return writeOutput(opts.output, out)
}

// collectLicenses resolves the external dependency closure and the license
// record for every package in it.
func (c *CLI) collectLicenses(ctx context.Context, ws *deps.Workspace, planner deps.Planner, pkg string, targets []string) ([]*license.Info, error) {
	resolver := deps.NewResolver(ws, planner)
	resolver.Logger = func(format string, args ...any) {
		c.Logger.Debug(fmt.Sprintf(format, args...))
	}

	spinner := newSpinnerWithContext(ctx, "Resolving dependency closure...")
	spinner.Start()
	external, err := resolver.ExternalDependencies(ctx, pkg, targets)
	if err != nil {
		spinner.StopWithError("Resolving dependencies failed")
		return nil, err
	}
	spinner.Stop()

	lr := license.NewResolver(httputil.NewClient())
	infos := make([]*license.Info, 0, len(external))
	for _, dep := range external {
		c.Logger.Debug("resolving license", "package", dep.Name, "license", dep.License)
		info, err := lr.Resolve(ctx, dep)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	printInfo("%d external dependencies", len(infos))
	return infos, nil
}

// checkAgainstFile compares generated output against a previously committed
// report, byte for byte. A mismatch means dependency licenses have changed
// and the committed report needs regenerating and re-reviewing.
func checkAgainstFile(path string, out []byte) error {
	want, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "reading check file")
	}
	if string(want) != string(out) {
		return errors.New(errors.ErrCodeDriftMismatch, "dependency details have changed from those in %s", path)
	}
	printSuccess("Report matches %s", path)
	return nil
}

func writeOutput(path string, out []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "writing output file")
	}
	printFile(path)
	return nil
}
