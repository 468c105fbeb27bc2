package report

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/matzehuels/depsummary/pkg/errors"
	"github.com/matzehuels/depsummary/pkg/license"
)

func sampleInfos() []*license.Info {
	return []*license.Info{
		info("megadep", "MPL-2.0", "mozilla terms"),
		info("serde", "Apache-2.0", "apache terms with [yyyy] placeholder"),
		info("prost", "Apache-2.0", "apache terms with 2019 FooCorp filled in"),
		info("ring", "ISC", "isc terms for ring"),
		info("adler32", "Zlib", "zlib terms"),
	}
}

func TestRenderMarkdown_Structure(t *testing.T) {
	doc, err := RenderMarkdown(sampleInfos())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(doc, "# Licenses for Third-Party Dependencies\n") {
		t.Error("missing document title")
	}
	for _, want := range []string{
		"* [Mozilla Public License 2.0](#mozilla-public-license-20)",
		"* [Apache License 2.0](#apache-license-20)",
		"* [ISC License: ring](#isc-license-ring)",
		"* [Zlib License: adler32](#zlib-license-adler32)",
		"## Mozilla Public License 2.0",
		"This license applies to code linked from the following dependencies: [ring](https://example.com/ring)",
		"```\nisc terms for ring\n```",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	// MPL section must precede ISC, which must precede Zlib.
	mpl := strings.Index(doc, "## Mozilla Public License 2.0")
	isc := strings.Index(doc, "## ISC License: ring")
	zlib := strings.Index(doc, "## Zlib License: adler32")
	if !(mpl < isc && isc < zlib) {
		t.Errorf("sections out of preference order: mpl=%d isc=%d zlib=%d", mpl, isc, zlib)
	}
}

func TestRenderMarkdown_ApachePlaceholderPreferred(t *testing.T) {
	doc, err := RenderMarkdown(sampleInfos())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, "apache terms with [yyyy] placeholder") {
		t.Error("apache section must render the generic template text")
	}
	if strings.Contains(doc, "FooCorp") {
		t.Error("apache section must not render a project-specific copy")
	}
}

func TestRenderMarkdown_ApachePlaceholderMissing(t *testing.T) {
	_, err := RenderMarkdown([]*license.Info{
		info("prost", "Apache-2.0", "apache terms with 2019 FooCorp filled in"),
	})
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("expected RENDER error, got %v", err)
	}
}

func TestRenderMarkdown_FenceInText(t *testing.T) {
	_, err := RenderMarkdown([]*license.Info{
		info("evil", "MIT", "terms with a ``` fence inside"),
	})
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("expected RENDER error, got %v", err)
	}
}

func TestRenderMarkdown_DedupesRepeatedVersions(t *testing.T) {
	doc, err := RenderMarkdown([]*license.Info{
		info("ring", "ISC", "isc terms"),
		info("ring", "ISC", "isc terms"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(doc, "[ring](https://example.com/ring)") != 1 {
		t.Error("repeated versions must collapse to one repository link")
	}
	if !strings.Contains(doc, "## ISC License: ring\n") {
		t.Error("repeated versions must collapse to one header name")
	}
}

func TestRenderMarkdown_PermutationStable(t *testing.T) {
	base, err := RenderMarkdown(sampleInfos())
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := sampleInfos()
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		doc, err := RenderMarkdown(shuffled)
		if err != nil {
			t.Fatal(err)
		}
		if doc != base {
			t.Fatal("document is not byte-identical across input permutations")
		}
	}
}

func TestRenderJSON(t *testing.T) {
	infos := []*license.Info{
		info("ring", "ISC", "isc terms"),
		info("ring", "ISC", "isc terms"), // duplicates are kept
	}

	data, err := RenderJSON(infos)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []license.Info
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 {
		t.Errorf("got %d records, want 2 (no dedup in structured output)", len(decoded))
	}
	if decoded[0].LicenseText != "isc terms" {
		t.Errorf("record = %+v", decoded[0])
	}
}

func TestRenderJSON_Empty(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty output = %q, want []", data)
	}
}
