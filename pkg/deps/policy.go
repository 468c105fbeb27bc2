package deps

import (
	_ "embed"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depsummary/pkg/errors"
)

//go:embed policy.toml
var defaultPolicyTOML []byte

// fixupFields are the package metadata fields a fixup may touch.
var fixupFields = []string{"license", "license_file", "repository"}

// FieldFixup is one expected-value-guarded correction to a metadata field.
//
// Check is the value we expect cargo to report today (empty string for an
// empty field). Fixup, when present, is the replacement value. An entry
// with a nil Fixup only asserts that the expected value still holds.
type FieldFixup struct {
	Check string  `toml:"check"`
	Fixup *string `toml:"fixup"`
}

// ExtraPackage describes a dependency managed outside of cargo (bundled
// native libraries, language-binding runtimes). It is synthesized into the
// workspace with the same shape as a cargo package.
type ExtraPackage struct {
	Name        string `toml:"name"`
	Repository  string `toml:"repository"`
	License     string `toml:"license"`
	LicenseFile string `toml:"license_file"`
	LicenseText string `toml:"license_text"`
}

// Policy is the hand-maintained correction table overlaid on cargo metadata.
// The default policy is embedded in the binary; an alternate table can be
// loaded from disk for testing and table maintenance.
type Policy struct {
	ExcludedPackages  []string                         `toml:"excluded_packages"`
	Fixups            map[string]map[string]FieldFixup `toml:"fixups"`
	ExtraPackages     map[string]ExtraPackage          `toml:"extra_packages"`
	ExtraDependencies map[string][]string              `toml:"extra_dependencies"`
	PlatformExtras    map[string][]string              `toml:"platform_extras"`
}

// DefaultPolicy parses the embedded policy table.
func DefaultPolicy() (*Policy, error) {
	return parsePolicy(defaultPolicyTOML)
}

// LoadPolicy reads a policy table from a TOML file on disk.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "reading policy file %s", path)
	}
	return parsePolicy(data)
}

func parsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "parsing policy table")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// validate catches table-maintenance mistakes up front, before any cargo
// invocation: unknown fixup fields and extra-dependency keys that don't
// name a declared extra package.
func (p *Policy) validate() error {
	for pkg, fields := range p.Fixups {
		for field := range fields {
			if !slices.Contains(fixupFields, field) {
				return errors.New(errors.ErrCodeInvalidPolicy, "fixup for %s names unknown field %q", pkg, field)
			}
		}
	}

	for pkg, keys := range p.ExtraDependencies {
		for _, key := range keys {
			if _, ok := p.ExtraPackages[key]; !ok {
				return errors.New(errors.ErrCodeInvalidPolicy, "extra dependency %q of %s is not a declared extra package", key, pkg)
			}
		}
	}

	for family, keys := range p.PlatformExtras {
		if family != "android" && family != "ios" {
			return errors.New(errors.ErrCodeInvalidPolicy, "unknown platform family %q in platform_extras", family)
		}
		for _, key := range keys {
			if _, ok := p.ExtraPackages[key]; !ok {
				return errors.New(errors.ErrCodeInvalidPolicy, "platform extra %q is not a declared extra package", key)
			}
		}
	}

	return nil
}

// excluded reports whether a package name is on the deny list.
func (p *Policy) excluded(name string) bool {
	return slices.Contains(p.ExcludedPackages, name)
}
