// Package certainty assigns a 0–100 confidence score to an email address
// from its provenance and independently-verifiable domain signals.
package certainty

// Evidence is the fixed set of signals the scorer considers.
type Evidence struct {
	// VerifiedByProvider means a data provider asserted deliverability.
	VerifiedByProvider bool
	// FoundOnCompanyWebsite means the address appeared verbatim on the
	// company's own site.
	FoundOnCompanyWebsite bool
	// PatternMatchesKnownFormat means the address matches a format already
	// confirmed for other people at the same company.
	PatternMatchesKnownFormat bool
	// DomainHasMXRecord means the domain is configured to receive mail.
	DomainHasMXRecord bool
	// BarePatternGuess means the address was generated from the person's
	// name with no corroboration.
	BarePatternGuess bool
}

// Scores for each evidence tier, highest trust first.
const (
	ScoreProviderVerified = 100
	ScoreOnWebsite        = 95
	ScorePatternWithMX    = 85
	ScoreMXOnly           = 70
	ScoreBareGuess        = 50
	ScoreFloor            = 20
)

// HighCertaintyThreshold is the cutoff above which an address is treated
// as safe to send to without review.
const HighCertaintyThreshold = 70

// Score maps evidence to a certainty value via a strict priority table:
// the first matching rule wins, lower-priority signals never add to a
// higher tier. The ordering encodes the product's trust hierarchy and
// must not be reordered.
func Score(ev Evidence) int {
	switch {
	case ev.VerifiedByProvider:
		return ScoreProviderVerified
	case ev.FoundOnCompanyWebsite:
		return ScoreOnWebsite
	case ev.PatternMatchesKnownFormat && ev.DomainHasMXRecord:
		return ScorePatternWithMX
	case ev.DomainHasMXRecord:
		return ScoreMXOnly
	case ev.BarePatternGuess:
		return ScoreBareGuess
	default:
		return ScoreFloor
	}
}
