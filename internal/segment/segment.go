// Package segment scans raw model output and splits it into up to three
// named tracker segments (user stats, info box, present characters). Three
// generations of wire format coexist in the wild: raw concatenated JSON
// objects, fenced JSON blocks, and legacy delimited text sections; the
// segmenter tries each strategy in priority order and returns the first one
// that yields at least one segment. Strategies are never combined.
package segment

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tracknerd/internal/repair"
	"tracknerd/internal/track"
)

// Result carries the extracted segments. JSON strategies fill the fields
// with compact canonical JSON; legacy strategies fill them with raw section
// text for the label extraction path. An empty string means the model
// omitted that tracker this turn, which is not an error; ParsingFailed is
// set only when every strategy came up empty.
type Result struct {
	StatsJSON      string
	InfoBoxJSON    string
	CharactersJSON string
	ParsingFailed  bool

	// Strategy names the extraction strategy that produced the result;
	// Rules records, per segment, the classifier predicate that fired.
	Strategy string
	Rules    map[track.Kind]string
	Warnings []string
}

// Get returns the segment content for a tracker kind.
func (r *Result) Get(kind track.Kind) string {
	switch kind {
	case track.KindUserStats:
		return r.StatsJSON
	case track.KindInfoBox:
		return r.InfoBoxJSON
	case track.KindCharacters:
		return r.CharactersJSON
	}
	return ""
}

func (r *Result) set(kind track.Kind, content, ruleName string) bool {
	if content == "" || r.Get(kind) != "" {
		return false
	}
	switch kind {
	case track.KindUserStats:
		r.StatsJSON = content
	case track.KindInfoBox:
		r.InfoBoxJSON = content
	case track.KindCharacters:
		r.CharactersJSON = content
	default:
		return false
	}
	if r.Rules == nil {
		r.Rules = make(map[track.Kind]string)
	}
	r.Rules[kind] = ruleName
	return true
}

func (r *Result) any() bool {
	return r.StatsJSON != "" || r.InfoBoxJSON != "" || r.CharactersJSON != ""
}

// Segmenter splits raw responses into tracker segments.
type Segmenter struct {
	log *zap.Logger
}

// New returns a Segmenter. A nil logger is replaced with a no-op logger.
func New(log *zap.Logger) *Segmenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Segmenter{log: log}
}

var (
	segThinkRE    = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)
	fencedJSONRE  = regexp.MustCompile("(?is)```json[ \t]*\r?\n(.*?)```")
	fencedAnyRE   = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)```")
	trackersTagRE = regexp.MustCompile(`(?is)<trackers>(.*?)</trackers>`)
)

// prepare strips thinking blocks and literal FORMAT: markers before any
// structural scan.
func prepare(raw string) string {
	s := segThinkRE.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, "FORMAT:", "")
	return s
}

// Segment extracts tracker segments from one raw model response.
func (s *Segmenter) Segment(raw string) Result {
	res := Result{Rules: make(map[track.Kind]string)}
	cleaned := prepare(raw)

	if s.rawObjects(cleaned, &res) {
		res.Strategy = "raw_objects"
		for _, rule := range res.Rules {
			if rule == "unified_wrapper" {
				res.Strategy = "unified_wrapper"
				break
			}
		}
		return res
	}
	if s.fencedJSON(cleaned, &res) {
		res.Strategy = "fenced_json"
		return res
	}
	if s.xmlTrackers(cleaned, &res) {
		res.Strategy = "xml_trackers"
		return res
	}
	if s.legacyBlocks(cleaned, &res) {
		res.Strategy = "legacy_blocks"
		return res
	}

	s.log.Warn("no segmenter strategy matched", zap.Int("len", len(raw)))
	res.ParsingFailed = true
	return res
}

// rawObjects is strategy 1: brace-matched top-level object extraction.
//
// When exactly one balanced object exists and it contains any of the three
// tracker keys, it is treated as a unified wrapper and its nested values
// become the segments directly. This deliberately wins over classifying the
// wrapper itself as a single segment: with one top-level object the
// container reading is the intended one.
func (s *Segmenter) rawObjects(cleaned string, res *Result) bool {
	candidates := scanObjects(cleaned)
	if len(candidates) == 0 {
		return false
	}

	if len(candidates) == 1 {
		if canon, ok := canonicalize(candidates[0]); ok && s.unified(canon, res) {
			return true
		}
	}

	for _, cand := range candidates {
		canon, ok := canonicalize(cand)
		if !ok {
			s.log.Debug("candidate object unrepairable", zap.Int("len", len(cand)))
			res.Warnings = append(res.Warnings, "unrepairable object candidate dropped")
			continue
		}
		s.classifyInto(canon, res)
	}
	return res.any()
}

// unified extracts segments from a single wrapper object holding any of the
// userStats / infoBox / characters keys. Missing keys stay absent.
func (s *Segmenter) unified(canon string, res *Result) bool {
	g := gjson.Parse(canon)
	found := false
	for _, kind := range track.Kinds {
		if v := g.Get(string(kind)); v.Exists() {
			res.set(kind, v.Raw, "unified_wrapper")
			found = true
		}
	}
	return found && res.any()
}

// classifyInto repairs one candidate, unwraps a single-kind wrapper if
// present, and assigns the candidate to the first matching classifier rule.
// Candidates matching no rule are dropped silently (schema mismatch is not a
// turn failure), but logged for diagnosis.
func (s *Segmenter) classifyInto(canon string, res *Result) {
	if inner, kind, ok := unwrapSingleKind(canon); ok {
		res.set(kind, inner, "single_key_wrapper")
		return
	}
	kind, ruleName, ok := classify(canon)
	if !ok {
		s.log.Debug("segment candidate matched no classifier", zap.String("json", preview(canon)))
		res.Warnings = append(res.Warnings, "candidate matched no tracker shape")
		return
	}
	res.set(kind, canon, ruleName)
}

// fencedJSON is strategy 2: every ```json fenced block parsed and classified
// independently.
func (s *Segmenter) fencedJSON(cleaned string, res *Result) bool {
	for _, m := range fencedJSONRE.FindAllStringSubmatch(cleaned, -1) {
		canon, ok := canonicalize(m[1])
		if !ok {
			s.log.Debug("fenced json block unrepairable", zap.Int("len", len(m[1])))
			continue
		}
		s.classifyInto(canon, res)
	}
	return res.any()
}

// canonicalize repairs near-JSON text and re-serializes it to compact
// canonical JSON so downstream key probing sees a uniform shape.
func canonicalize(text string) (string, bool) {
	v, ok := repair.Repair(text)
	if !ok {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func preview(s string) string {
	const limit = 120
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
