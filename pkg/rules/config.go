package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile mirrors the merge-rule YAML layout:
//
//	ProductMergeRules:
//	  - rule: split units
//	    command: AutoMergeIOProducts
//	  - rule: nce family
//	    command: AutoMergeByPattern
//	    pattern: "^NCE\\d{3}"
//	    cross: [CMD211]
//	  - rule: bundles
//	    command: CombineProducts
//	    packages:
//	      - products: [CMD211, CRG14CL1N, CRG14CL1NCMD]
type ruleFile struct {
	ProductMergeRules []ruleEntry `yaml:"ProductMergeRules"`
}

type ruleEntry struct {
	Rule     string   `yaml:"rule"`
	Command  string   `yaml:"command"`
	Pattern  string   `yaml:"pattern"`
	Cross    []string `yaml:"cross"`
	Packages []struct {
		Products []string `yaml:"products"`
	} `yaml:"packages"`
}

// Load reads and parses a merge-rule YAML file. An entry listing several
// packages is flattened into one rule per product list.
func Load(path string) ([]MergeRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read merge rules %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses merge rules from YAML bytes.
func Parse(raw []byte) ([]MergeRule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse merge rules: %w", err)
	}
	var parsed []MergeRule
	for _, entry := range file.ProductMergeRules {
		cmd := Strategy(entry.Command)
		switch cmd {
		case AutoMergeIOProducts, AutoMergeByPattern, CombineProducts:
		default:
			return nil, fmt.Errorf("%q is not a valid merge command (rule %q)", entry.Command, entry.Rule)
		}
		if len(entry.Packages) == 0 {
			parsed = append(parsed, MergeRule{
				Name:    entry.Rule,
				Command: cmd,
				Pattern: entry.Pattern,
				Cross:   entry.Cross,
			})
			continue
		}
		for _, pkg := range entry.Packages {
			parsed = append(parsed, MergeRule{
				Name:     entry.Rule,
				Command:  cmd,
				Pattern:  entry.Pattern,
				Cross:    entry.Cross,
				Products: pkg.Products,
			})
		}
	}
	return parsed, nil
}
