// Package prompt renders the previous tracker state as context for the next
// model call. The records it receives are already lock-annotated; the fixed
// suffix tells the model what the locked:true convention means.
package prompt

import (
	"strings"

	"tracknerd/internal/track"
)

var headings = map[track.Kind]string{
	track.KindUserStats:  "User Stats",
	track.KindInfoBox:    "Info Box",
	track.KindCharacters: "Present Characters",
}

const lockedSuffix = `Fields wrapped as {"value": ..., "locked": true} and objects carrying "locked": true must be reproduced exactly as given. Do not alter, remove, or re-wrap locked values; update only unlocked fields.`

// Previous renders the labeled previous-state blocks in canonical kind
// order, followed by the locked-convention instructions. Kinds with no
// stored record are skipped; with nothing stored at all the result is
// empty and the instructions are omitted too.
func Previous(states map[track.Kind]string) string {
	var b strings.Builder
	for _, kind := range track.Kinds {
		rec, ok := states[kind]
		if !ok || strings.TrimSpace(rec) == "" {
			continue
		}
		b.WriteString("Previous ")
		b.WriteString(headings[kind])
		b.WriteString(":\n```json\n")
		b.WriteString(rec)
		b.WriteString("\n```\n\n")
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString(lockedSuffix)
	b.WriteString("\n")
	return b.String()
}
