package aiguess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/anthropic"
)

// mockGen implements anthropic.Client for testing.
type mockGen struct {
	text string
	err  error
}

func (m *mockGen) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: m.text}},
	}, nil
}

func TestGuessContacts(t *testing.T) {
	g := NewGuesser(&mockGen{
		text: `Here are my best guesses:
[{"name": "Ana Li", "title": "VP Sales"}, {"name": "", "title": "ghost"}, {"name": "Bob Ray", "title": "CTO"}]`,
	}, "")

	persons, err := g.GuessContacts(context.Background(), model.Company{
		ID:      "c1",
		Name:    "Acme",
		Website: "https://acme.com",
	}, []string{"VP Sales"})
	require.NoError(t, err)

	require.Len(t, persons, 2)
	assert.Equal(t, "Ana Li", persons[0].Name)
	assert.Equal(t, model.SourceAIGuess, persons[0].Source)
	assert.Empty(t, persons[0].Email)
	assert.Zero(t, persons[0].EmailCertainty)
	assert.False(t, persons[0].EmailVerified)
	assert.Equal(t, "c1", persons[0].CompanyID)
}

func TestGuessContacts_UnparseableYieldsNothing(t *testing.T) {
	g := NewGuesser(&mockGen{text: "I'm not sure who works there."}, "")
	persons, err := g.GuessContacts(context.Background(), model.Company{Name: "Acme"}, nil)
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestGuessEmailFormat(t *testing.T) {
	g := NewGuesser(&mockGen{text: `{"pattern": "{f}{last}"}`}, "")
	pattern, err := g.GuessEmailFormat(context.Background(), "Acme", "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "{f}{last}", pattern)
}

func TestGuessEmailFormat_Unparseable(t *testing.T) {
	g := NewGuesser(&mockGen{text: "probably first dot last"}, "")
	pattern, err := g.GuessEmailFormat(context.Background(), "Acme", "acme.com")
	require.NoError(t, err)
	assert.Empty(t, pattern)
}
