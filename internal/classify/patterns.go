package classify

import "regexp"

// Pattern pairs a file-name pattern with the tag it assigns.
type Pattern struct {
	Tag Tag
	Re  *regexp.Regexp
}

// PatternTable matches the file stem against patterns in order; first match wins.
// The final entry is expected to be a catch-all.
type PatternTable []Pattern

// Classify implements Classifier. Only the name is consulted.
func (pt PatternTable) Classify(in Input) Tag {
	stem := in.stem()
	for _, p := range pt {
		if p.Re.MatchString(stem) {
			return p.Tag
		}
	}
	return TagStandard
}

// DefaultPatternTable is the name-only policy:
//
//	framework  strategic|framework|compass
//	playbook   playbook|quick-reference
//	template   template
//	rules      protocol|meeting|handoff|rules|standards
//	standard   .*
func DefaultPatternTable() PatternTable {
	return PatternTable{
		{Tag: TagFramework, Re: regexp.MustCompile(`(?i)strategic|framework|compass`)},
		{Tag: TagPlaybook, Re: regexp.MustCompile(`(?i)playbook|quick-reference`)},
		{Tag: TagTemplate, Re: regexp.MustCompile(`(?i)template`)},
		{Tag: TagRules, Re: regexp.MustCompile(`(?i)protocol|meeting|handoff|rules|standards`)},
		{Tag: TagStandard, Re: regexp.MustCompile(`.*`)},
	}
}
