// Package repair recovers a parseable JSON object or array from model output
// that is almost, but not quite, JSON. Models routinely wrap payloads in
// markdown fences, leak thinking tags, leave comments or trailing commas, or
// emit relaxed object literals with unquoted keys; each stage below trades a
// little strictness for a narrower failure mode so a turn degrades instead of
// aborting.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	fenceRE         = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)```")
	thinkRE         = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)
	blockCommentRE  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE   = regexp.MustCompile(`(?m)(^|[ \t])//[^\n]*`)
	trailingCommaRE = regexp.MustCompile(`,(\s*[}\]])`)
)

// Clean applies the lossless-ish text scrubs shared by every parse stage:
// fence unwrapping, thinking-tag removal, comment removal, and trailing-comma
// removal.
func Clean(text string) string {
	s := thinkRE.ReplaceAllString(text, "")
	s = fenceRE.ReplaceAllString(s, "$1")
	s = blockCommentRE.ReplaceAllString(s, "")
	s = lineCommentRE.ReplaceAllString(s, "$1")
	s = trailingCommaRE.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// Repair coerces near-valid JSON text into a decoded object or array.
// It never returns an error: ok=false is the only failure signal, and the
// caller treats that as "this text contributes nothing this turn".
func Repair(text string) (any, bool) {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil, false
	}

	// 1. Strict parse of the cleaned text.
	if v, ok := strictParse(cleaned); ok {
		return v, true
	}

	// 2. Widest {...} span, then widest [...] span. Surrounding prose is the
	// most common contamination after fences.
	if sub, ok := widestSpan(cleaned, '{', '}'); ok {
		if v, ok := strictParse(sub); ok {
			return v, true
		}
	}
	if sub, ok := widestSpan(cleaned, '[', ']'); ok {
		if v, ok := strictParse(sub); ok {
			return v, true
		}
	}

	// 3. Relaxed literal parse. YAML flow syntax accepts the unquoted-key and
	// single-quoted-string shapes models fall back to; anything that decodes
	// to a scalar (i.e. the text was prose) is rejected.
	if v, ok := yamlParse(cleaned); ok {
		return v, true
	}

	return nil, false
}

// RepairObject is Repair restricted to object results.
func RepairObject(text string) (map[string]any, bool) {
	v, ok := Repair(text)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func strictParse(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return container(v)
}

func yamlParse(s string) (any, bool) {
	// Only text shaped like an object or array literal. Without this guard
	// plain "Label: value" prose decodes as a YAML map and steals input that
	// belongs to the legacy label extractor.
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return container(v)
}

// container accepts only non-nil objects and arrays.
func container(v any) (any, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	return nil, false
}

func widestSpan(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
