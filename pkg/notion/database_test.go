package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFindContactByEmail(t *testing.T) {
	t.Run("returns page when found", func(t *testing.T) {
		mc := new(MockClient)
		ctx := context.Background()

		mc.On("QueryDatabase", ctx, "db-123", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
			pf, ok := req.Filter.(notionapi.PropertyFilter)
			return ok && pf.Property == "Email" &&
				pf.RichText != nil && pf.RichText.Equals == "jane@acme.com" &&
				req.PageSize == 1
		})).Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{{ID: "page-1"}},
		}, nil)

		page, err := FindContactByEmail(ctx, mc, "db-123", "jane@acme.com")
		require.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, notionapi.ObjectID("page-1"), page.ID)
		mc.AssertExpectations(t)
	})

	t.Run("returns nil when not found", func(t *testing.T) {
		mc := new(MockClient)
		ctx := context.Background()

		mc.On("QueryDatabase", ctx, "db-123", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
			Return(&notionapi.DatabaseQueryResponse{}, nil)

		page, err := FindContactByEmail(ctx, mc, "db-123", "nobody@acme.com")
		require.NoError(t, err)
		assert.Nil(t, page)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mc := new(MockClient)
		ctx := context.Background()

		mc.On("QueryDatabase", ctx, "db-err", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
			Return(nil, assert.AnError)

		page, err := FindContactByEmail(ctx, mc, "db-err", "jane@acme.com")
		assert.Error(t, err)
		assert.Nil(t, page)
		assert.Contains(t, err.Error(), "find contact by email")
	})
}
