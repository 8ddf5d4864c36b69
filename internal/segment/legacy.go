package segment

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"tracknerd/internal/track"
)

// Strategies 3 and 4 handle the pre-JSON formats: an XML-ish <trackers>
// wrapper and bare fenced text blocks with header-delimited sections. Legacy
// segment content stays plain text; the normalizer's label path takes over
// from there.

var (
	statsHeaderRE      = regexp.MustCompile(`(?im)^[ \t]*(?:[A-Za-z][\w' ]*[ \t]+)?stats[ \t]*$`)
	infoBoxHeaderRE    = regexp.MustCompile(`(?im)^[ \t]*info[ \t]*box[ \t]*$`)
	charactersHeaderRE = regexp.MustCompile(`(?im)^[ \t]*(?:present[ \t]+)?characters[ \t]*$`)

	underlineRE   = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
	percentLineRE = regexp.MustCompile(`(?m)^[ \t]*[A-Za-z][\w' ]*:[ \t]*\d+[ \t]*%`)
	labelRE       = regexp.MustCompile(`(?im)^[ \t]*(date|location|time)[ \t]*:`)
	detailsItemRE = regexp.MustCompile(`(?ms)^[ \t]*[-*][ \t]+\S.*?^[ \t]*Details[ \t]*:`)

	bracketSpanRE = regexp.MustCompile(`\[([^\[\]]*)\]`)
	emptyPipeRE   = regexp.MustCompile(`\|[ \t]*\|`)
	alphaWordRE   = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Template scaffolding words. A bracketed span whose text sits within edit
// distance 1 of any of these is a placeholder the model failed to fill in.
var placeholderWords = []string{
	"placeholder", "insert", "value", "example", "unchanged",
	"unknown", "tbd", "todo", "none", "same", "current",
}

// xmlTrackers is strategy 3: a <trackers>...</trackers> wrapper holding
// fenced or bare JSON, or legacy delimited sections as a last resort.
func (s *Segmenter) xmlTrackers(cleaned string, res *Result) bool {
	m := trackersTagRE.FindStringSubmatch(cleaned)
	if m == nil {
		return false
	}
	body := m[1]

	for _, b := range fencedAnyRE.FindAllStringSubmatch(body, -1) {
		s.trackerBlock(b[1], res)
	}
	if res.any() {
		return true
	}
	for _, cand := range scanObjects(body) {
		s.trackerBlock(cand, res)
	}
	if res.any() {
		return true
	}
	return s.sectionsInto(body, res)
}

// trackerBlock classifies one JSON block found inside a <trackers> wrapper.
// Blocks there may carry an explicit "type" discriminator, which wins over
// key sniffing.
func (s *Segmenter) trackerBlock(text string, res *Result) {
	canon, ok := canonicalize(text)
	if !ok {
		s.log.Debug("trackers block unrepairable", zap.Int("len", len(text)))
		return
	}
	if kind, ok := typeField(canon); ok {
		res.set(kind, canon, "type_field")
		return
	}
	s.classifyInto(canon, res)
}

// legacyBlocks is strategy 4: generic fenced blocks of delimited text. Each
// block is either split on section headers or attributed whole by header and
// content heuristics.
func (s *Segmenter) legacyBlocks(cleaned string, res *Result) bool {
	for _, b := range fencedAnyRE.FindAllStringSubmatch(cleaned, -1) {
		body := strings.TrimSpace(b[1])
		if body == "" {
			continue
		}
		if s.sectionsInto(body, res) {
			continue
		}
		if kind, ok := classifyText(body); ok {
			res.set(kind, stripPlaceholders(body), "text_heuristic")
		} else {
			s.log.Debug("fenced block matched no heuristic", zap.String("text", preview(body)))
		}
	}
	return res.any()
}

type sectionMark struct {
	kind  track.Kind
	start int // header line start
	body  int // content start, after the header line
}

// sectionsInto splits text on recognized section header lines and assigns
// each section body to its tracker kind. At least two headers must be
// present for a split; a single header is handled by classifyText so the
// header line itself is kept for the label path.
func (s *Segmenter) sectionsInto(text string, res *Result) bool {
	var marks []sectionMark
	for _, pair := range []struct {
		re   *regexp.Regexp
		kind track.Kind
	}{
		{statsHeaderRE, track.KindUserStats},
		{infoBoxHeaderRE, track.KindInfoBox},
		{charactersHeaderRE, track.KindCharacters},
	} {
		for _, loc := range pair.re.FindAllStringIndex(text, -1) {
			marks = append(marks, sectionMark{kind: pair.kind, start: loc[0], body: loc[1]})
		}
	}
	if len(marks) < 2 {
		return false
	}
	for i := range marks {
		for j := i + 1; j < len(marks); j++ {
			if marks[j].start < marks[i].start {
				marks[i], marks[j] = marks[j], marks[i]
			}
		}
	}
	found := false
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		body := text[m.body:end]
		body = underlineRE.ReplaceAllString(body, "")
		body = strings.TrimSpace(stripPlaceholders(body))
		if body == "" {
			continue
		}
		if res.set(m.kind, body, "section_header") {
			found = true
		}
	}
	return found
}

// classifyText attributes a whole text block to a tracker kind, first by its
// header line, then by content shape.
func classifyText(body string) (track.Kind, bool) {
	head, _, _ := strings.Cut(body, "\n")
	head = strings.ToLower(head)
	switch {
	case strings.Contains(head, "stats"):
		return track.KindUserStats, true
	case strings.Contains(head, "info box"):
		return track.KindInfoBox, true
	case strings.Contains(head, "characters"):
		return track.KindCharacters, true
	}

	if len(percentLineRE.FindAllString(body, -1)) >= 2 {
		return track.KindUserStats, true
	}
	labels := map[string]bool{}
	for _, m := range labelRE.FindAllStringSubmatch(body, -1) {
		labels[strings.ToLower(m[1])] = true
	}
	if labels["date"] && labels["location"] && labels["time"] {
		return track.KindInfoBox, true
	}
	if detailsItemRE.MatchString(body) {
		return track.KindCharacters, true
	}
	return "", false
}

// stripPlaceholders removes template scaffolding the model echoed back:
// a bracket wrapping the entire section, and bracketed spans whose content
// is a placeholder word or short generic phrase. Real bracketed data such
// as quantities survives.
func stripPlaceholders(s string) string {
	t := strings.TrimSpace(s)
	if wrappedInBrackets(t) {
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	t = bracketSpanRE.ReplaceAllStringFunc(t, func(m string) string {
		if placeholderText(m[1 : len(m)-1]) {
			return ""
		}
		return m
	})
	t = emptyPipeRE.ReplaceAllString(t, "|")
	var out []string
	for _, line := range strings.Split(t, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.Join(out, "\n")
}

// wrappedInBrackets reports whether the first byte opens a bracket that
// closes only at the last byte.
func wrappedInBrackets(s string) bool {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// placeholderText reports whether bracketed content is template scaffolding
// rather than data. Fuzzy matching absorbs the model's typos; anything with
// digits or punctuation is treated as data and kept.
func placeholderText(inner string) bool {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(inner)))
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !alphaWordRE.MatchString(w) {
			return false
		}
	}
	for _, w := range words {
		for _, p := range placeholderWords {
			if levenshtein.ComputeDistance(w, p) <= 1 {
				return true
			}
		}
	}
	return len(words) <= 3
}
