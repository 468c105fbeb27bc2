package cargo

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/matzehuels/depsummary/pkg/errors"
)

// Runner executes an external command and returns its stdout.
// Implementations must return an error for any non-zero exit.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec, passing stderr through so cargo's
// own diagnostics reach the user unmodified.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

// Client invokes the cargo collaborator commands and parses their output.
type Client struct {
	runner Runner
}

// NewClient creates a Client that shells out to the real cargo binary.
func NewClient() *Client {
	return &Client{runner: execRunner{}}
}

// NewClientWithRunner creates a Client with a custom Runner. Used in tests.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// Metadata runs `cargo metadata` and parses the full workspace metadata graph.
func (c *Client) Metadata(ctx context.Context) (*Metadata, error) {
	out, err := c.runner.Run(ctx, "cargo", "+nightly", "metadata", "--locked", "--format-version", "1")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "cargo metadata failed")
	}

	var md Metadata
	if err := json.Unmarshal(out, &md); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataInvalid, err, "parsing cargo metadata output")
	}
	return &md, nil
}

// BuildPlan runs a build-plan query scoped to one package and one target
// triple. Build plans are an unstable cargo feature and require nightly.
func (c *Client) BuildPlan(ctx context.Context, pkg, target string) (*BuildPlan, error) {
	out, err := c.runner.Run(ctx,
		"cargo", "+nightly", "-Z", "unstable-options", "build",
		"--build-plan",
		"--quiet",
		"--locked",
		"--package", pkg,
		"--target", target,
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubprocess, err, "cargo build-plan failed for %s (%s)", pkg, target)
	}

	var plan BuildPlan
	if err := json.Unmarshal(out, &plan); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataInvalid, err, "parsing build plan for %s (%s)", pkg, target)
	}
	return &plan, nil
}
