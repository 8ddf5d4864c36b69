package normalize

import (
	"regexp"
	"strings"
	"sync"
)

// Legacy text segments carry "Label: value" lines. Extraction is one linear
// regex per configured label; a missing label is simply absent.

var (
	labelMu  sync.Mutex
	labelREs = map[string]*regexp.Regexp{}
)

func labelPattern(label string) *regexp.Regexp {
	labelMu.Lock()
	defer labelMu.Unlock()
	if re, ok := labelREs[label]; ok {
		return re
	}
	re := regexp.MustCompile(`(?im)^[ \t*-]*` + regexp.QuoteMeta(label) + `[ \t]*:[ \t]*(.+?)[ \t]*$`)
	labelREs[label] = re
	return re
}

// LabelLine extracts the full value of one labeled line from legacy text,
// running to end of line.
func LabelLine(text, label string) (string, bool) {
	m := labelPattern(label).FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// LabelValue extracts a single labeled value, truncated at the first comma
// so that run-on lines ("Health: 80%, feeling fine") keep only the field.
func LabelValue(text, label string) (string, bool) {
	v, ok := LabelLine(text, label)
	if !ok {
		return "", false
	}
	if i := strings.Index(v, ","); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v, v != ""
}
