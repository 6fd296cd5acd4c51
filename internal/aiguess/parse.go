// Package aiguess produces exploratory contact and email-pattern guesses
// from the text-generation backend. Everything here is best-effort and
// feeds only the lowest trust tier; it stays outside the waterfall and
// certainty logic.
package aiguess

import (
	"encoding/json"
	"strings"
)

// ParseKind tags the outcome of extracting JSON from generated prose.
type ParseKind int

const (
	Unparseable ParseKind = iota
	ParsedList
	ParsedSingle
)

// ParseResult is the tagged outcome of ExtractJSON. Exactly one of List
// and Single is set, per Kind.
type ParseResult struct {
	Kind   ParseKind
	List   []json.RawMessage
	Single json.RawMessage
}

// ExtractJSON pulls the first JSON array or object out of free-form text.
// The backend wraps its JSON in prose and code fences unpredictably, so
// this scans rather than unmarshals the whole payload. An empty or
// unbalanced payload yields Unparseable, never an error.
func ExtractJSON(text string) ParseResult {
	text = stripFences(text)

	arrStart := strings.Index(text, "[")
	objStart := strings.Index(text, "{")

	// Prefer whichever opens first; an object containing an array field
	// should parse as the object.
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if raw, ok := balancedSlice(text[arrStart:], '[', ']'); ok {
			var list []json.RawMessage
			if json.Unmarshal([]byte(raw), &list) == nil {
				return ParseResult{Kind: ParsedList, List: list}
			}
		}
	}
	if objStart >= 0 {
		if raw, ok := balancedSlice(text[objStart:], '{', '}'); ok {
			var probe map[string]json.RawMessage
			if json.Unmarshal([]byte(raw), &probe) == nil {
				return ParseResult{Kind: ParsedSingle, Single: json.RawMessage(raw)}
			}
		}
	}
	return ParseResult{Kind: Unparseable}
}

// stripFences removes markdown code fences so the bracket scan sees the
// raw payload.
func stripFences(text string) string {
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	return text
}

// balancedSlice returns the prefix of s spanning the first balanced
// open/close pair, honoring JSON string quoting.
func balancedSlice(s string, open, close byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
