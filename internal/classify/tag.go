// Package classify assigns every document exactly one Tag.
//
// Two policies exist. Both are ordered lists evaluated top to bottom where the
// first match wins, and both end in a catch-all so classification is total.
// The order of the lists is the precedence policy; it is never derived from map
// iteration.
package classify

// Tag is the document category driving template selection and index grouping.
type Tag string

const (
	TagFramework Tag = "framework"
	TagPlaybook  Tag = "playbook"
	TagTemplate  Tag = "template"
	TagRules     Tag = "rules"
	TagStandard  Tag = "standard"
)

// Tags lists every tag in index group order.
var Tags = []Tag{TagFramework, TagPlaybook, TagTemplate, TagRules, TagStandard}

func (t Tag) String() string { return string(t) }

// Valid reports whether t is one of the closed set of tags.
func (t Tag) Valid() bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}
