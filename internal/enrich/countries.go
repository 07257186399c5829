// Package enrich joins country-level Logistics Performance Index data onto
// the raw shipment table.
package enrich

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

var foldCaser = cases.Fold()

// normalizeCountry canonicalizes a country name for alias lookup.
func normalizeCountry(name string) string {
	return foldCaser.String(strings.TrimSpace(name))
}

// defaultAliases maps indicator-source country names to the names the
// shipment dataset uses. Keys are stored case-folded.
var defaultAliases = map[string]string{
	"united states":            "USA",
	"united states of america": "USA",
	"us":                       "USA",
	"united kingdom":           "UK",
	"united kingdom of great britain and northern ireland": "UK",
	"united arab emirates":                                 "UAE",
	"u.a.e.":                                               "UAE",
}

// AliasTable resolves indicator-source country names to dataset names.
type AliasTable struct {
	aliases map[string]string
}

// NewAliasTable builds the static alias table, optionally extended by a yaml
// override file of the form `Source Name: Dataset Name`. Overrides win over
// the built-in entries.
func NewAliasTable(overridePath string) (*AliasTable, error) {
	aliases := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, eris.Wrapf(err, "enrich: read alias file %s", overridePath)
		}
		var overrides map[string]string
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, eris.Wrapf(err, "enrich: parse alias file %s", overridePath)
		}
		for k, v := range overrides {
			aliases[normalizeCountry(k)] = v
		}
	}

	return &AliasTable{aliases: aliases}, nil
}

// Resolve maps a source country name to the dataset name. Names without an
// alias pass through trimmed but otherwise unchanged.
func (a *AliasTable) Resolve(name string) string {
	if dataset, ok := a.aliases[normalizeCountry(name)]; ok {
		return dataset
	}
	return strings.TrimSpace(name)
}
