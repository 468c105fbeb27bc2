package cargo

import (
	"context"
	"errors"
	"strings"
	"testing"

	dserrors "github.com/matzehuels/depsummary/pkg/errors"
)

// fakeRunner returns canned output keyed by the joined command line.
type fakeRunner struct {
	outputs map[string][]byte
	err     error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdline := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, cmdline)
	if f.err != nil {
		return nil, f.err
	}
	out, ok := f.outputs[cmdline]
	if !ok {
		return nil, errors.New("unexpected command: " + cmdline)
	}
	return out, nil
}

const metadataJSON = `{
	"packages": [
		{
			"id": "serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)",
			"name": "serde",
			"version": "1.0.0",
			"license": "MIT OR Apache-2.0",
			"license_file": null,
			"repository": "https://github.com/serde-rs/serde",
			"manifest_path": "/registry/serde-1.0.0/Cargo.toml",
			"source": "registry+https://github.com/rust-lang/crates.io-index",
			"targets": [{"name": "serde", "kind": ["lib"]}]
		},
		{
			"id": "logins 0.1.0 (path+file:///ws/logins)",
			"name": "logins",
			"version": "0.1.0",
			"license": "MPL-2.0",
			"license_file": null,
			"repository": null,
			"manifest_path": "/ws/logins/Cargo.toml",
			"source": null,
			"targets": [{"name": "logins", "kind": ["lib", "cdylib"]}]
		}
	],
	"workspace_members": ["logins 0.1.0 (path+file:///ws/logins)"],
	"workspace_root": "/ws",
	"resolve": {
		"nodes": [
			{"id": "logins 0.1.0 (path+file:///ws/logins)", "dependencies": ["serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)"]},
			{"id": "serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)", "dependencies": []}
		]
	}
}`

func TestClient_Metadata(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{
		"cargo +nightly metadata --locked --format-version 1": []byte(metadataJSON),
	}}

	md, err := NewClientWithRunner(runner).Metadata(context.Background())
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	if len(md.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(md.Packages))
	}
	if md.WorkspaceRoot != "/ws" {
		t.Errorf("workspace root = %q, want /ws", md.WorkspaceRoot)
	}
	if len(md.WorkspaceMembers) != 1 {
		t.Errorf("expected 1 workspace member, got %d", len(md.WorkspaceMembers))
	}
	if md.Resolve == nil || len(md.Resolve.Nodes) != 2 {
		t.Error("expected resolve graph with 2 nodes")
	}

	serde := md.Packages[0]
	if serde.License != "MIT OR Apache-2.0" {
		t.Errorf("license = %q", serde.License)
	}
	if serde.LicenseFile != "" {
		t.Errorf("license_file = %q, want empty for JSON null", serde.LicenseFile)
	}
	if serde.Source == "" {
		t.Error("expected registry source to be non-empty")
	}

	logins := md.Packages[1]
	if logins.Source != "" {
		t.Errorf("workspace-local source = %q, want empty", logins.Source)
	}
	if !logins.HasTargetKind("cdylib") {
		t.Error("expected logins to have a cdylib target")
	}
	if logins.HasTargetKind("proc-macro") {
		t.Error("did not expect a proc-macro target")
	}
}

func TestClient_Metadata_SubprocessFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 101")}

	_, err := NewClientWithRunner(runner).Metadata(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !dserrors.Is(err, dserrors.ErrCodeSubprocess) {
		t.Errorf("expected SUBPROCESS_FAILED, got %v", dserrors.GetCode(err))
	}
}

func TestClient_Metadata_MalformedOutput(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{
		"cargo +nightly metadata --locked --format-version 1": []byte("not json"),
	}}

	_, err := NewClientWithRunner(runner).Metadata(context.Background())
	if !dserrors.Is(err, dserrors.ErrCodeMetadataInvalid) {
		t.Errorf("expected METADATA_INVALID, got %v", err)
	}
}

func TestClient_BuildPlan(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{
		"cargo +nightly -Z unstable-options build --build-plan --quiet --locked --package logins --target x86_64-unknown-linux-gnu": []byte(
			`{"inputs": ["/ws/logins/Cargo.toml", "/registry/serde-1.0.0/Cargo.toml"]}`),
	}}

	plan, err := NewClientWithRunner(runner).BuildPlan(context.Background(), "logins", "x86_64-unknown-linux-gnu")
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if len(plan.Inputs) != 2 {
		t.Errorf("expected 2 inputs, got %d", len(plan.Inputs))
	}
	if len(runner.calls) != 1 {
		t.Errorf("expected exactly one subprocess call, got %d", len(runner.calls))
	}
}

func TestClient_BuildPlan_SubprocessFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}

	_, err := NewClientWithRunner(runner).BuildPlan(context.Background(), "logins", "aarch64-apple-ios")
	if !dserrors.Is(err, dserrors.ErrCodeSubprocess) {
		t.Errorf("expected SUBPROCESS_FAILED, got %v", err)
	}
}
