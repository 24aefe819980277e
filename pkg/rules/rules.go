// Package rules turns the product-merge configuration into concrete bundle
// definitions for the package layer. A rule names a strategy; the builder
// applies every rule to the current article-code universe and returns
// ordered code tuples, largest first.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"salesalloc/pkg/allocation"
)

// Strategy identifies how a merge rule groups article codes.
type Strategy string

const (
	// AutoMergeIOProducts pairs indoor/outdoor split units ("-I"/"-O" suffix).
	AutoMergeIOProducts Strategy = "AutoMergeIOProducts"
	// AutoMergeByPattern groups articles sharing a regex-matched stem,
	// optionally crossing each match with a fixed article list.
	AutoMergeByPattern Strategy = "AutoMergeByPattern"
	// CombineProducts bundles an explicit article list.
	CombineProducts Strategy = "CombineProducts"
)

// MergeRule is one parsed configuration entry.
type MergeRule struct {
	Name     string
	Command  Strategy
	Pattern  string
	Cross    []string
	Products []string
}

// DuplicateBundleError reports a product claimed by more members of a
// two-way split than expected. It is a data-quality fault, not a stock
// problem.
type DuplicateBundleError struct {
	Stem     string
	Articles []allocation.ArticleCode
}

func (e *DuplicateBundleError) Error() string {
	return fmt.Sprintf("articles %v share split-unit stem %q; expected a two-way split", e.Articles, e.Stem)
}

// Builder implements allocation.DefinitionsBuilder over a rule set.
type Builder struct {
	Rules []MergeRule
}

func NewBuilder(mergeRules []MergeRule) *Builder {
	return &Builder{Rules: mergeRules}
}

var _ allocation.DefinitionsBuilder = (*Builder)(nil)

// MakeDefinitions applies every rule to the article universe. Multi-member
// definitions come first, ordered by descending size so larger specific
// bundles claim products before smaller generic ones, followed by one
// singleton definition per article for the leftovers.
func (b *Builder) MakeDefinitions(articles []allocation.ArticleCode) ([][]allocation.ArticleCode, error) {
	var defs [][]allocation.ArticleCode
	for _, rule := range b.Rules {
		switch rule.Command {
		case AutoMergeIOProducts:
			d, err := b.MergeIndoorOutdoor(articles)
			if err != nil {
				return nil, err
			}
			defs = append(defs, d...)
		case AutoMergeByPattern:
			var d [][]allocation.ArticleCode
			var err error
			if len(rule.Cross) > 0 {
				d, err = b.MergeByPatternWithCrossing(articles, rule.Pattern, rule.Cross)
			} else {
				d, err = b.MergeByPattern(articles, rule.Pattern)
			}
			if err != nil {
				return nil, err
			}
			defs = append(defs, d...)
		case CombineProducts:
			defs = append(defs, b.CombineList(rule.Products))
		default:
			return nil, fmt.Errorf("unknown merge command %q in rule %q", rule.Command, rule.Name)
		}
	}
	sort.SliceStable(defs, func(i, j int) bool { return len(defs[i]) > len(defs[j]) })
	for _, a := range articles {
		defs = append(defs, []allocation.ArticleCode{a})
	}
	return defs, nil
}

// MergeIndoorOutdoor pairs articles that differ only in a trailing "-I"/"-O"
// suffix. More than two articles on one stem is a data fault.
func (b *Builder) MergeIndoorOutdoor(articles []allocation.ArticleCode) ([][]allocation.ArticleCode, error) {
	stems := make(map[string][]allocation.ArticleCode)
	var order []string
	for _, a := range articles {
		code := strings.TrimSpace(strings.ReplaceAll(string(a), " ", ""))
		if !strings.HasSuffix(code, "-I") && !strings.HasSuffix(code, "-O") {
			continue
		}
		stem := code[:len(code)-2]
		if _, seen := stems[stem]; !seen {
			order = append(order, stem)
		}
		stems[stem] = append(stems[stem], a)
	}
	var defs [][]allocation.ArticleCode
	for _, stem := range order {
		group := stems[stem]
		if len(group) > 2 {
			return nil, &DuplicateBundleError{Stem: stem, Articles: group}
		}
		if len(group) == 2 {
			defs = append(defs, group)
		}
	}
	return defs, nil
}

// MergeByPattern groups articles whose code matches the pattern by the
// matched stem; only stems covering two or more articles become bundles.
func (b *Builder) MergeByPattern(articles []allocation.ArticleCode, pattern string) ([][]allocation.ArticleCode, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid merge pattern %q: %w", pattern, err)
	}
	stems := make(map[string][]allocation.ArticleCode)
	var order []string
	for _, a := range articles {
		stem := re.FindString(string(a))
		if stem == "" {
			continue
		}
		if _, seen := stems[stem]; !seen {
			order = append(order, stem)
		}
		stems[stem] = append(stems[stem], a)
	}
	var defs [][]allocation.ArticleCode
	for _, stem := range order {
		if group := stems[stem]; len(group) >= 2 {
			defs = append(defs, group)
		}
	}
	return defs, nil
}

// MergeByPatternWithCrossing bundles every pattern-matching article with a
// fixed cross-article list (e.g. a shared remote-control unit).
func (b *Builder) MergeByPatternWithCrossing(articles []allocation.ArticleCode, pattern string, cross []string) ([][]allocation.ArticleCode, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid merge pattern %q: %w", pattern, err)
	}
	var defs [][]allocation.ArticleCode
	for _, a := range articles {
		if !re.MatchString(string(a)) {
			continue
		}
		def := []allocation.ArticleCode{a}
		for _, c := range cross {
			def = append(def, allocation.ArticleCode(c))
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// CombineList returns the configured article list as one definition. Absent
// or depleted members are resolved later by the packer.
func (b *Builder) CombineList(products []string) []allocation.ArticleCode {
	def := make([]allocation.ArticleCode, 0, len(products))
	for _, p := range products {
		def = append(def, allocation.ArticleCode(p))
	}
	return def
}
