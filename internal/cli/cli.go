// Package cli implements the depsummary command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsummary/pkg/buildinfo"
	"github.com/matzehuels/depsummary/pkg/cargo"
	"github.com/matzehuels/depsummary/pkg/deps"
)

// appName is the application name used for display.
const appName = "depsummary"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Depsummary reports licenses of third-party dependencies",
		Long:         `Depsummary aggregates dependency and license metadata for a cargo workspace, producing a redistribution-ready summary of which open-source licenses apply to which dependencies.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.reportCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadWorkspace queries cargo metadata and builds the policy-corrected
// workspace index shared by the report and graph commands.
func (c *CLI) loadWorkspace(cmd *cobra.Command, client *cargo.Client, policyPath string) (*cargo.Metadata, *deps.Workspace, error) {
	policy, err := loadPolicy(policyPath)
	if err != nil {
		return nil, nil, err
	}

	spinner := newSpinnerWithContext(cmd.Context(), "Loading cargo metadata...")
	spinner.Start()
	md, err := client.Metadata(cmd.Context())
	if err != nil {
		spinner.StopWithError("Loading cargo metadata failed")
		return nil, nil, err
	}
	spinner.Stop()

	ws, err := deps.NewWorkspace(md, policy)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("workspace indexed", "root", ws.Root(), "members", len(ws.MemberNames()))
	return md, ws, nil
}

func loadPolicy(path string) (*deps.Policy, error) {
	if path == "" {
		return deps.DefaultPolicy()
	}
	return deps.LoadPolicy(path)
}
