// Package license selects and resolves license terms for dependencies.
//
// Every external dependency declares an SPDX-style license expression,
// possibly offering a choice of several licenses. This package picks the
// single license we redistribute under, using a fixed preference order,
// and then locates the full license text for it.
package license

import (
	"regexp"

	"github.com/matzehuels/depsummary/pkg/errors"
)

// preferenceOrder lists the licenses we accept, most preferred first.
// Preference is a subjective call: acceptable at all first, then how
// convenient the license is to reproduce in a summary document.
var preferenceOrder = []string{
	"MPL-2.0",
	"Apache-2.0",
	"MIT",
	"CC0-1.0",
	"ISC",
	"BSD-2-Clause",
	"BSD-3-Clause",
}

// expressionSep splits "A/B" and "A OR B" into individual license names.
var expressionSep = regexp.MustCompile(`\s*(?:/|\sOR\s)\s*`)

// ParseExpression splits an SPDX-style license expression into the set of
// individual license identifiers it offers.
func ParseExpression(expr string) map[string]bool {
	set := make(map[string]bool)
	for _, name := range expressionSep.Split(expr, -1) {
		set[name] = true
	}
	return set
}

// PreferenceIndex returns the rank of a license kind in the preference
// order. Kinds we have no stated preference for rank after all listed ones.
func PreferenceIndex(kind string) int {
	for i, name := range preferenceOrder {
		if name == kind {
			return i
		}
	}
	return len(preferenceOrder)
}

// Choose picks the license under which to redistribute a dependency, given
// its package id and declared license expression. The first entry of the
// preference order present in the expression wins.
//
// The OpenSSL license is accepted only for the hand-audited openssl package
// itself, so a new dependency cannot slip in under it unreviewed.
func Choose(id, expr string) (string, error) {
	licenses := ParseExpression(expr)
	for _, name := range preferenceOrder {
		if licenses[name] {
			return name, nil
		}
	}
	if licenses["OpenSSL"] && id == "ext-openssl" {
		return "OpenSSL", nil
	}
	return "", errors.New(errors.ErrCodeLicenseSelection,
		"could not determine acceptable license for %s; license is %q", id, expr)
}
