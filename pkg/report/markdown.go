package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/depsummary/pkg/errors"
	"github.com/matzehuels/depsummary/pkg/license"
)

const (
	title = "# Licenses for Third-Party Dependencies"

	intro = "Software packages built from this source code may incorporate code from a number of third-party dependencies.\n" +
		"These dependencies are available under a variety of free and open source licenses,\n" +
		"the details of which are reproduced below."

	sectionRule = "-------------"
)

// RenderMarkdown produces the human-readable summary document: a title and
// introduction, a table of contents linking to each license section, and one
// section per license group with the member packages and the literal license
// text in a fenced block.
func RenderMarkdown(infos []*license.Info) (string, error) {
	groups := BuildGroups(infos)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(intro + "\n\n")

	for _, g := range groups {
		header := formatHeader(g)
		fmt.Fprintf(&b, "* [%s](#%s)\n", header, headerToAnchor(header))
	}
	b.WriteString(sectionRule + "\n")

	for _, g := range groups {
		text, err := pickText(g)
		if err != nil {
			return "", err
		}
		if strings.Contains(text, "```") {
			return "", errors.New(errors.ErrCodeRender,
				"license text for %q contains a fence delimiter and cannot be rendered", g.Kind)
		}

		fmt.Fprintf(&b, "## %s\n\n", formatHeader(g))
		fmt.Fprintf(&b, "This license applies to code linked from the following dependencies: %s\n\n",
			strings.Join(repositoryLinks(g), ", "))
		b.WriteString("```\n")
		b.WriteString(strings.TrimRight(text, "\n"))
		b.WriteString("\n```\n")
		b.WriteString(sectionRule + "\n")
	}
	return b.String(), nil
}

// pickText selects the license text to render for a group. Members of a
// group share the text by construction, except the Apache group, where some
// packages fill in the copyright line of the template. The rendered copy
// must be the generic template, identified by its unfilled year placeholder.
func pickText(g *Group) (string, error) {
	for _, info := range g.Members {
		if g.Key != "Apache-2.0" || strings.Contains(info.LicenseText, "[yyyy]") {
			return info.LicenseText, nil
		}
	}
	return "", errors.New(errors.ErrCodeRender,
		"could not find a generic apache license text among %v", memberNames(g))
}

// repositoryLinks returns the sorted, deduped markdown links for the group's
// members. Multiple versions of one dependency collapse to a single link.
func repositoryLinks(g *Group) []string {
	seen := make(map[string]bool)
	var links []string
	for _, info := range g.Members {
		link := fmt.Sprintf("[%s](%s)", info.Name, info.Repository)
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	}
	sort.Strings(links)
	return links
}

// formatHeader returns the section header for a group. The three licenses
// with shared boilerplate get fixed long-form names; everything else is
// headed by kind and member names.
func formatHeader(g *Group) string {
	switch g.Key {
	case "MPL-2.0":
		return "Mozilla Public License 2.0"
	case "Apache-2.0":
		return "Apache License 2.0"
	case "OpenSSL":
		return "OpenSSL License"
	}

	seen := make(map[string]bool)
	var names []string
	for _, info := range g.Members {
		if !seen[info.Name] {
			seen[info.Name] = true
			names = append(names, info.Name)
		}
	}
	sort.Strings(names)
	return fmt.Sprintf("%s License: %s", g.Kind, strings.Join(names, ", "))
}

// headerToAnchor derives the github-style anchor slug for a section header.
func headerToAnchor(header string) string {
	anchor := strings.ToLower(header)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	for _, ch := range []string{".", ",", ":"} {
		anchor = strings.ReplaceAll(anchor, ch, "")
	}
	return anchor
}
