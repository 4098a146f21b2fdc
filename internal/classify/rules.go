package classify

import "strings"

// Predicate reports whether a rule applies to the input.
type Predicate func(in Input) bool

// Rule pairs a predicate with the tag it assigns.
type Rule struct {
	Tag   Tag
	Match Predicate
}

// RuleSet evaluates rules in order; the first match wins. Documents matching no
// rule receive Fallback.
type RuleSet struct {
	Rules    []Rule
	Fallback Tag
}

// Classify implements Classifier.
func (rs RuleSet) Classify(in Input) Tag {
	for _, r := range rs.Rules {
		if r.Match(in) {
			return r.Tag
		}
	}
	if rs.Fallback == "" {
		return TagStandard
	}
	return rs.Fallback
}

// DefaultRuleSet is the name-and-content policy. Precedence:
//
//  1. playbook:  name contains "playbook", or text contains "Decision Trees"
//  2. framework: name contains "strategic"/"framework", or text contains "Strategic"/"Framework"
//  3. template:  parent directory is "templates", or name contains "template"
//  4. rules:     parent directory is "rules", or name contains "standards"/"rules"
//  5. standard:  everything else
//
// Name checks ignore case; text checks are case-sensitive.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Rules: []Rule{
			{Tag: TagPlaybook, Match: Any(NameContains("playbook"), ContentContains("Decision Trees"))},
			{Tag: TagFramework, Match: Any(
				NameContains("strategic", "framework"),
				ContentContains("Strategic", "Framework"),
			)},
			{Tag: TagTemplate, Match: Any(DirIs("templates"), NameContains("template"))},
			{Tag: TagRules, Match: Any(DirIs("rules"), NameContains("standards", "rules"))},
		},
		Fallback: TagStandard,
	}
}

// NameContains matches when the lower-cased stem contains any of the words.
func NameContains(words ...string) Predicate {
	return func(in Input) bool {
		stem := in.stem()
		for _, w := range words {
			if strings.Contains(stem, strings.ToLower(w)) {
				return true
			}
		}
		return false
	}
}

// ContentContains matches when the text contains any of the needles verbatim.
func ContentContains(needles ...string) Predicate {
	return func(in Input) bool {
		for _, n := range needles {
			if strings.Contains(in.Content, n) {
				return true
			}
		}
		return false
	}
}

// DirIs matches when the parent directory name equals dir.
func DirIs(dir string) Predicate {
	return func(in Input) bool { return in.Dir == dir }
}

// Any matches when at least one predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(in Input) bool {
		for _, p := range preds {
			if p(in) {
				return true
			}
		}
		return false
	}
}
