// Package emailpattern generates candidate email addresses from a person's
// name and a company domain, most-likely-first. It is deterministic and
// makes no network calls; certainty for its output is assigned elsewhere.
package emailpattern

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generate returns candidate addresses for the given name parts at domain,
// ordered by how common the pattern is in practice. Candidates that would
// be malformed (empty local part, double dots) are filtered out, never
// produced. An empty domain yields no candidates.
func Generate(firstName, lastName, domain string) []string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil
	}

	first := normalizePart(firstName)
	last := normalizePart(lastName)
	if first == "" && last == "" {
		return nil
	}

	var locals []string
	switch {
	case first != "" && last != "":
		locals = []string{
			first + "." + last,
			first + last,
			first[:1] + "." + last,
			first[:1] + last,
			first,
			first + "_" + last,
			first + "." + last[:1],
		}
	case first != "":
		locals = []string{first}
	default:
		locals = []string{last}
	}

	seen := make(map[string]struct{}, len(locals))
	out := make([]string, 0, len(locals))
	for _, local := range locals {
		if !validLocal(local) {
			continue
		}
		addr := local + "@" + domain
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// normalizePart folds a name token to bare ascii letters and digits:
// lowercased, diacritics stripped, punctuation removed ("O'Brien" → "obrien").
func normalizePart(s string) string {
	folded, _, err := transform.String(asciiFold, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validLocal(local string) bool {
	if local == "" {
		return false
	}
	if strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	return true
}
