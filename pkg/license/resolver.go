package license

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depsummary/pkg/deps"
	"github.com/matzehuels/depsummary/pkg/errors"
)

// Conventional license file names by license kind. A package that declares
// no license file but has exactly one file matching these conventions is
// treated as unambiguous; anything else needs a policy fixup.
var conventionalNameRoots = map[string][]string{
	"":           {"license", "licence"},
	"Apache-2.0": {"license-apache", "licence-apache"},
	"MIT":        {"license-mit", "licence-mit"},
}

var conventionalNameSuffixes = []string{"", ".md", ".txt"}

// conventionalNames returns the set of lowercase file names considered
// conventional for a license kind. Kind-specific roots are combined with
// the generic ones.
func conventionalNames(kind string) map[string]bool {
	roots, ok := conventionalNameRoots[kind]
	if !ok {
		roots = nil
	}
	names := make(map[string]bool)
	for _, suffix := range conventionalNameSuffixes {
		for _, root := range roots {
			names[root+suffix] = true
		}
		for _, root := range conventionalNameRoots[""] {
			names[root+suffix] = true
		}
	}
	return names
}

// Info is the resolved license record for one dependency.
type Info struct {
	Name        string `json:"name"`
	Repository  string `json:"repository"`
	License     string `json:"license"`
	LicenseText string `json:"license_text"`
}

// Fetcher retrieves a remote license file. Satisfied by [httputil.Client].
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Resolver determines the license kind and full license text for packages.
type Resolver struct {
	fetcher Fetcher
}

// NewResolver creates a Resolver that uses fetcher for remote license files.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve returns the license record for one dependency, or an error if no
// acceptable license (or its text) can be determined. It never guesses: an
// undeterminable license is a prompt for a human-reviewed policy entry.
func (r *Resolver) Resolve(ctx context.Context, pkg *deps.PackageInfo) (*Info, error) {
	chosen, err := Choose(pkg.ID, pkg.License)
	if err != nil {
		return nil, err
	}
	text, err := r.resolveText(ctx, chosen, pkg)
	if err != nil {
		return nil, err
	}
	return &Info{
		Name:        pkg.Name,
		Repository:  pkg.Repository,
		License:     chosen,
		LicenseText: text,
	}, nil
}

// resolveText locates the full license text, trying in order: text embedded
// on the package record, a declared license file (remote URL or path
// relative to the manifest directory), and finally an unambiguous
// conventionally-named file next to the manifest.
func (r *Resolver) resolveText(ctx context.Context, chosen string, pkg *deps.PackageInfo) (string, error) {
	if pkg.LicenseText != "" {
		return pkg.LicenseText, nil
	}

	if pkg.LicenseFile != "" {
		if strings.HasPrefix(pkg.LicenseFile, "https://") {
			return r.fetcher.GetText(ctx, pkg.LicenseFile)
		}
		path := filepath.Join(filepath.Dir(pkg.ManifestPath), pkg.LicenseFile)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeLicenseNotFound, err,
				"reading declared license file for %q", pkg.Name)
		}
		return string(data), nil
	}

	return r.findConventionalFile(chosen, pkg)
}

func (r *Resolver) findConventionalFile(chosen string, pkg *deps.PackageInfo) (string, error) {
	pkgRoot := filepath.Dir(pkg.ManifestPath)
	entries, err := os.ReadDir(pkgRoot)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeLicenseNotFound, err,
			"listing package directory for %q", pkg.Name)
	}

	names := conventionalNames(chosen)
	var found []string
	for _, entry := range entries {
		if names[strings.ToLower(entry.Name())] {
			found = append(found, entry.Name())
		}
	}

	switch len(found) {
	case 1:
		data, err := os.ReadFile(filepath.Join(pkgRoot, found[0]))
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeLicenseNotFound, err,
				"reading license file for %q", pkg.Name)
		}
		return string(data), nil
	case 0:
		return "", errors.New(errors.ErrCodeLicenseNotFound,
			"could not find license file for %q; locate the correct file and add it to the policy fixups (source repository: %s)",
			pkg.Name, pkg.Repository)
	default:
		return "", errors.New(errors.ErrCodeLicenseAmbiguous,
			"multiple ambiguous license files found for %q: %v; select the correct one and add it to the policy fixups (source repository: %s)",
			pkg.Name, found, pkg.Repository)
	}
}
