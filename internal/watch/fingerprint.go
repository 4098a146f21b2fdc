package watch

import (
	"os"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpages/internal/markdown"
)

// Fingerprint hashes a document's front matter and body. Two files with the
// same fingerprint render to the same page body.
func Fingerprint(source []byte) string {
	fields, body, err := markdown.SplitFrontMatter(source)
	if err != nil || len(fields) == 0 {
		return mdfp.CalculateFingerprintFromParts("", string(body))
	}
	serialized, err := yaml.Marshal(fields)
	if err != nil {
		return mdfp.CalculateFingerprintFromParts("", string(source))
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(serialized), "\n"), string(body))
}

// fingerprints remembers the last converted fingerprint per source path.
type fingerprints map[string]string

// changed reports whether path's content differs from what was last seen and
// records the new fingerprint. Unreadable files count as changed so the
// conversion reports the error.
func (f fingerprints) changed(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		delete(f, path)
		return true
	}
	fp := Fingerprint(data)
	if prev, ok := f[path]; ok && prev == fp {
		return false
	}
	f[path] = fp
	return true
}

// seed records fingerprints for paths without reporting changes.
func (f fingerprints) seed(paths []string) {
	for _, p := range paths {
		if data, err := os.ReadFile(p); err == nil {
			f[p] = Fingerprint(data)
		}
	}
}
