package repair

import (
	"testing"
)

func TestRepair_ToleranceStages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "clean",
			input: `{"a": 1}`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "trailing_comma",
			input: `{"a":1,}`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "json_fence",
			input: "```json\n{\"a\":1}\n```",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "bare_fence",
			input: "```\n{\"a\":1}\n```",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "thinking_tags",
			input: "<think>hmm, the user wants stats</think>{\"a\":1}",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "thinking_tags_uppercase",
			input: "<THINKING>\nreasoning\n</THINKING>\n{\"a\":1}",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "line_comments",
			input: "{\n  // current health\n  \"a\": 1\n}",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "block_comments",
			input: `{"a": /* pct */ 1}`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "surrounding_prose",
			input: `Here is the tracker: {"a": 1} Hope that helps!`,
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "unquoted_key_literal",
			input: `{a: 1}`,
			want:  map[string]any{"a": 1},
		},
		{
			name:  "single_quoted_literal",
			input: `{a: 'one'}`,
			want:  map[string]any{"a": "one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Repair(tt.input)
			if !ok {
				t.Fatalf("Repair(%q) failed, want %v", tt.input, tt.want)
			}
			m, ok := got.(map[string]any)
			if !ok {
				t.Fatalf("Repair(%q) = %T, want object", tt.input, got)
			}
			if len(m) != len(tt.want) {
				t.Fatalf("Repair(%q) = %v, want %v", tt.input, m, tt.want)
			}
			for k, v := range tt.want {
				if m[k] != v {
					t.Errorf("Repair(%q)[%q] = %v (%T), want %v (%T)", tt.input, k, m[k], m[k], v, v)
				}
			}
		})
	}
}

func TestRepair_Arrays(t *testing.T) {
	got, ok := Repair("```json\n[{\"name\":\"Alice\"},]\n```")
	if !ok {
		t.Fatal("expected array repair to succeed")
	}
	arr, ok := got.([]any)
	if !ok || len(arr) != 1 {
		t.Fatalf("got %#v, want one-element array", got)
	}
}

func TestRepair_Failures(t *testing.T) {
	for _, input := range []string{
		"",
		"As an AI I cannot comply.",
		"just some prose with no structure",
		"<think>only thoughts</think>",
	} {
		if v, ok := Repair(input); ok {
			t.Errorf("Repair(%q) = %v, want failure", input, v)
		}
	}
}

func TestRepair_URLCommentSafety(t *testing.T) {
	// The line-comment scrub must not eat protocol-relative content inside
	// string values.
	got, ok := Repair(`{"link": "http://example.com/a"}`)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	m := got.(map[string]any)
	if m["link"] != "http://example.com/a" {
		t.Errorf("link = %v, want URL preserved", m["link"])
	}
}

func TestWidestSpan(t *testing.T) {
	sub, ok := widestSpan(`x {"a": {"b": 2}} y`, '{', '}')
	if !ok || sub != `{"a": {"b": 2}}` {
		t.Errorf("widestSpan = %q, %v", sub, ok)
	}
	if _, ok := widestSpan("no braces", '{', '}'); ok {
		t.Error("expected no span")
	}
}
