package classify

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpages/internal/foundation/normalization"
)

// Input is what a classifier may look at: the file name, the name of the
// directory holding it, and the raw text.
type Input struct {
	Name    string // base name, with or without extension
	Dir     string // name of the parent directory only
	Content string
}

// NewInput builds an Input from a source path and its text.
func NewInput(path, content string) Input {
	return Input{
		Name:    filepath.Base(path),
		Dir:     filepath.Base(filepath.Dir(path)),
		Content: content,
	}
}

// stem is the lower-cased base name without extension.
func (in Input) stem() string {
	name := filepath.Base(in.Name)
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// Classifier maps a document to exactly one Tag. Implementations are pure.
type Classifier interface {
	Classify(in Input) Tag
}

// Policy selects a classification strategy.
type Policy string

const (
	PolicyRules    Policy = "rules"
	PolicyPatterns Policy = "patterns"
)

var policyNormalizer = normalization.NewNormalizer("classifier policy", map[string]Policy{
	"rules":    PolicyRules,
	"patterns": PolicyPatterns,
}, PolicyRules)

// ParsePolicy maps a config value onto a Policy. Empty selects PolicyRules.
func ParsePolicy(raw string) (Policy, error) {
	return policyNormalizer.NormalizeWithError(raw)
}

// PolicyNames lists the accepted policy names.
func PolicyNames() []string { return policyNormalizer.ValidKeys() }

// New returns the classifier for p.
func New(p Policy) Classifier {
	if p == PolicyPatterns {
		return DefaultPatternTable()
	}
	return DefaultRuleSet()
}
