package certainty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_PriorityTable(t *testing.T) {
	tests := []struct {
		name string
		ev   Evidence
		want int
	}{
		{"provider verified", Evidence{VerifiedByProvider: true}, 100},
		{"found on website", Evidence{FoundOnCompanyWebsite: true}, 95},
		{"pattern match with mx", Evidence{PatternMatchesKnownFormat: true, DomainHasMXRecord: true}, 85},
		{"mx only", Evidence{DomainHasMXRecord: true}, 70},
		{"bare guess", Evidence{BarePatternGuess: true}, 50},
		{"no signals", Evidence{}, 20},
		{"pattern match without mx falls to floor", Evidence{PatternMatchesKnownFormat: true}, 20},
		{"bare guess with mx scores as mx", Evidence{BarePatternGuess: true, DomainHasMXRecord: true}, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.ev))
		})
	}
}

// Higher-priority evidence must dominate regardless of lower flags.
func TestScore_HigherEvidenceDominates(t *testing.T) {
	everything := Evidence{
		VerifiedByProvider:        true,
		FoundOnCompanyWebsite:     true,
		PatternMatchesKnownFormat: true,
		DomainHasMXRecord:         true,
		BarePatternGuess:          true,
	}
	assert.Equal(t, 100, Score(everything))

	everything.VerifiedByProvider = false
	assert.Equal(t, 95, Score(everything))

	everything.FoundOnCompanyWebsite = false
	assert.Equal(t, 85, Score(everything))

	everything.PatternMatchesKnownFormat = false
	assert.Equal(t, 70, Score(everything))

	everything.DomainHasMXRecord = false
	assert.Equal(t, 50, Score(everything))
}

// The table is total: every evidence combination lands on exactly one of
// the six defined scores.
func TestScore_Total(t *testing.T) {
	valid := map[int]bool{100: true, 95: true, 85: true, 70: true, 50: true, 20: true}
	for mask := 0; mask < 32; mask++ {
		ev := Evidence{
			VerifiedByProvider:        mask&1 != 0,
			FoundOnCompanyWebsite:     mask&2 != 0,
			PatternMatchesKnownFormat: mask&4 != 0,
			DomainHasMXRecord:         mask&8 != 0,
			BarePatternGuess:          mask&16 != 0,
		}
		assert.True(t, valid[Score(ev)], "evidence %+v scored %d", ev, Score(ev))
	}
}
