package segment

// scanObjects walks the input for top-level balanced {...} spans and returns
// each as a candidate object. A byte-level state machine tracks string
// literal state (respecting \" escapes) and brace depth, so braces inside
// string values never open or close a candidate. Every delimiter the scan
// reacts to is ASCII, so multi-byte runes in surrounding narrative text fall
// through the switch untouched.
func scanObjects(s string) []string {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}

	return candidates
}
