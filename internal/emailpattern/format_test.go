package emailpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		template string
		first    string
		last     string
		domain   string
		want     string
	}{
		{"first dot last", "{first}.{last}", "Ana", "Li", "acme.com", "ana.li@acme.com"},
		{"initial last", "{f}{last}", "Ana", "Li", "acme.com", "ali@acme.com"},
		{"first only", "{first}", "Ana", "Li", "acme.com", "ana@acme.com"},
		{"first dot initial", "{first}.{l}", "Ana", "Li", "acme.com", "ana.l@acme.com"},
		{"accents folded", "{first}.{last}", "José", "Núñez", "acme.com", "jose.nunez@acme.com"},
		{"missing last part", "{first}.{last}", "Ana", "", "acme.com", ""},
		{"missing domain", "{first}.{last}", "Ana", "Li", "", ""},
		{"unknown placeholder", "{middle}.{last}", "Ana", "Li", "acme.com", ""},
		{"empty template", "", "Ana", "Li", "acme.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.template, tt.first, tt.last, tt.domain))
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "{first}.{last}", Detect("ana.li@acme.com", "Ana", "Li"))
	assert.Equal(t, "{f}{last}", Detect("ali@acme.com", "Ana", "Li"))
	assert.Equal(t, "", Detect("ceo@acme.com", "Ana", "Li"))
	assert.Equal(t, "", Detect("not-an-email", "Ana", "Li"))
}

func TestDetectThenApply(t *testing.T) {
	// A format learned from one verified address carries to a colleague.
	tpl := Detect("john.smith@acme.com", "John", "Smith")
	assert.Equal(t, "{first}.{last}", tpl)
	assert.Equal(t, "ana.li@acme.com", Apply(tpl, "Ana", "Li", "acme.com"))
}
