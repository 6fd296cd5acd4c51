package salesforce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLeadsByEmail(t *testing.T) {
	t.Run("maps found leads by lowercased email", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, "SELECT Id, Email FROM Lead")
				assert.Contains(t, soql, "'jane@acme.com'")
				assert.Contains(t, soql, "'bob@beta.io'")

				leads := out.(*[]Lead)
				*leads = []Lead{
					{ID: "00Qa", Email: "Jane@Acme.com"},
				}
				return nil
			},
		}

		found, err := FindLeadsByEmail(context.Background(), mock, []string{"jane@acme.com", "bob@beta.io"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "00Qa", found["jane@acme.com"])
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, _ any) error {
				t.Fatal("query should not run")
				return nil
			},
		}

		found, err := FindLeadsByEmail(context.Background(), mock, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("blank addresses are ignored", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, _ any) error {
				t.Fatal("query should not run")
				return nil
			},
		}

		found, err := FindLeadsByEmail(context.Background(), mock, []string{"", ""})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, _ any) error {
				return errors.New("connection refused")
			},
		}

		found, err := FindLeadsByEmail(context.Background(), mock, []string{"jane@acme.com"})
		assert.Error(t, err)
		assert.Nil(t, found)
		assert.Contains(t, err.Error(), "find leads by email")
	})

	t.Run("quotes in addresses are escaped", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, `'o\'brien@acme.com'`)
				leads := out.(*[]Lead)
				*leads = []Lead{}
				return nil
			},
		}

		_, err := FindLeadsByEmail(context.Background(), mock, []string{"o'brien@acme.com"})
		require.NoError(t, err)
	})
}

func TestEscapeSoql(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"acme.com", "acme.com"},
		{"O'Reilly", "O\\'Reilly"},
		{"it's a test's case", "it\\'s a test\\'s case"},
		{"no-quotes", "no-quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeSoql(tt.input))
		})
	}
}
