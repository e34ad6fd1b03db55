package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrRuleFailed wraps a panic raised inside a single rule.
var ErrRuleFailed = errors.New("extraction rule failed")

// Rule recovers one fact kind from source text.
type Rule struct {
	Fact  string
	Apply func(text, name string, f *Facts)
}

// Rules is the fixed rule set, applied in order. Order does not matter for
// the result because each rule writes a distinct field.
var Rules = []Rule{
	{Fact: "identifier", Apply: matchPrimaryIdentifier},
	{Fact: "description", Apply: matchDescription},
	{Fact: "narrative", Apply: matchNarrative},
	{Fact: "examples", Apply: matchExamples},
	{Fact: "types", Apply: matchSupportedTypes},
	{Fact: "aliases", Apply: matchAliases},
}

// Match runs every rule over text. name is the file's base name without
// extension and is used by the alias rule. A panicking rule does not stop the
// others; its failure is reported in the returned error alongside the facts the
// remaining rules produced.
func Match(text, name string) (Facts, error) {
	var (
		f    Facts
		errs []error
	)
	for _, r := range Rules {
		if err := apply(r, text, name, &f); err != nil {
			errs = append(errs, err)
		}
	}
	return f, errors.Join(errs...)
}

func apply(r Rule, text, name string, f *Facts) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRuleFailed, r.Fact, rec)
		}
	}()
	r.Apply(text, name, f)
	return nil
}

var (
	identifierRe  = regexp.MustCompile(`\bvoid\s+(\w+)\s*\(\s*ref\s+` + EvaluationType + `\b`)
	descriptionRe = regexp.MustCompile(`\bstatic\s+immutable\s+\w*[Dd]escription\s*=\s*"((?:[^"\\\n]|\\.)+)"`)
	typeListRe    = regexp.MustCompile(`\bstatic\s+foreach\s*\(\s*Type\s*;\s*AliasSeq!\(([^)]+)\)`)
	aliasRe       = regexp.MustCompile(`\balias\s+(\w+)\s*=\s*(\w+)`)
)

func matchPrimaryIdentifier(text, _ string, f *Facts) {
	if m := identifierRe.FindStringSubmatch(text); m != nil {
		f.PrimaryIdentifier = m[1]
	}
}

// matchDescription takes the first description-like constant in the file.
func matchDescription(text, _ string, f *Facts) {
	if m := descriptionRe.FindStringSubmatch(text); m != nil {
		f.Description = m[1]
	}
}

func matchSupportedTypes(text, _ string, f *Facts) {
	m := typeListRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	seen := make(map[string]struct{})
	for _, t := range strings.Split(m[1], ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		f.SupportedTypes = append(f.SupportedTypes, t)
	}
}

// matchAliases records X for every "alias X = Y" where Y names this file.
func matchAliases(text, name string, f *Facts) {
	if name == "" {
		return
	}
	seen := make(map[string]struct{})
	for _, m := range aliasRe.FindAllStringSubmatch(text, -1) {
		alias, target := m[1], m[2]
		if !strings.EqualFold(target, name) || strings.EqualFold(alias, name) {
			continue
		}
		if _, dup := seen[alias]; dup {
			continue
		}
		seen[alias] = struct{}{}
		f.Aliases = append(f.Aliases, alias)
	}
}
