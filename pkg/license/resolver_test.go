package license

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/depsummary/pkg/deps"
	"github.com/matzehuels/depsummary/pkg/errors"
)

type fakeFetcher struct {
	texts map[string]string
}

func (f *fakeFetcher) GetText(ctx context.Context, url string) (string, error) {
	text, ok := f.texts[url]
	if !ok {
		return "", errors.New(errors.ErrCodeNetwork, "fetching %s: status 404", url)
	}
	return text, nil
}

// writePackage lays out a fake package directory and returns its manifest path.
func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "Cargo.toml")
}

func TestResolve_EmbeddedText(t *testing.T) {
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{
		ID: "ext-sqlcipher", Name: "sqlcipher",
		License:     "BSD-3-Clause",
		LicenseText: "Copyright (c) 2008, ZETETIC LLC",
		Synthetic:   true,
	}

	info, err := r.Resolve(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if info.License != "BSD-3-Clause" || info.LicenseText != pkg.LicenseText {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestResolve_DeclaredRemoteFile(t *testing.T) {
	const url = "https://raw.githubusercontent.com/briansmith/ring/master/LICENSE"
	r := NewResolver(&fakeFetcher{texts: map[string]string{url: "ISC-style terms"}})
	pkg := &deps.PackageInfo{
		ID: "ring 0.13.2", Name: "ring",
		License:     "ISC",
		LicenseFile: url,
	}

	info, err := r.Resolve(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if info.LicenseText != "ISC-style terms" {
		t.Errorf("license text = %q", info.LicenseText)
	}
}

func TestResolve_DeclaredRemoteFileFetchFails(t *testing.T) {
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{
		ID: "ring 0.13.2", Name: "ring",
		License:     "ISC",
		LicenseFile: "https://example.com/missing",
	}

	_, err := r.Resolve(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("expected NETWORK error, got %v", err)
	}
}

func TestResolve_DeclaredLocalFile(t *testing.T) {
	manifest := writePackage(t, map[string]string{"COPYING": "local terms"})
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{
		ID: "x 1.0.0", Name: "x",
		License:      "MIT",
		LicenseFile:  "COPYING",
		ManifestPath: manifest,
	}

	info, err := r.Resolve(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if info.LicenseText != "local terms" {
		t.Errorf("license text = %q", info.LicenseText)
	}
}

func TestResolve_ConventionalFile(t *testing.T) {
	// A dual-licensed package with no declared license file and a single
	// LICENSE.md resolves to Apache-2.0 via the generic name conventions.
	manifest := writePackage(t, map[string]string{
		"LICENSE.md": "apache terms",
		"README.md":  "not a license",
	})
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{
		ID: "x 1.0.0", Name: "x",
		License:      "MIT/Apache-2.0",
		ManifestPath: manifest,
	}

	info, err := r.Resolve(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if info.License != "Apache-2.0" {
		t.Errorf("license = %q, want Apache-2.0", info.License)
	}
	if info.LicenseText != "apache terms" {
		t.Errorf("license text = %q", info.LicenseText)
	}
}

func TestResolve_ConventionalFileMissing(t *testing.T) {
	manifest := writePackage(t, map[string]string{"README.md": "nothing here"})
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{
		ID: "x 1.0.0", Name: "x",
		License:      "MIT",
		ManifestPath: manifest,
	}

	_, err := r.Resolve(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodeLicenseNotFound) {
		t.Errorf("expected LICENSE_NOT_FOUND, got %v", err)
	}
}

func TestResolve_ConventionalFileAmbiguous(t *testing.T) {
	manifest := writePackage(t, map[string]string{
		"LICENSE.md":     "markdown terms",
		"LICENSE-APACHE": "apache terms",
	})
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{
		ID: "x 1.0.0", Name: "x",
		License:      "MIT OR Apache-2.0",
		ManifestPath: manifest,
	}

	_, err := r.Resolve(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodeLicenseAmbiguous) {
		t.Errorf("expected LICENSE_AMBIGUOUS, got %v", err)
	}
}

func TestResolve_UnacceptableLicense(t *testing.T) {
	r := NewResolver(&fakeFetcher{})
	pkg := &deps.PackageInfo{ID: "x 1.0.0", Name: "x", License: "WTFPL"}

	_, err := r.Resolve(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodeLicenseSelection) {
		t.Errorf("expected LICENSE_SELECTION, got %v", err)
	}
}
