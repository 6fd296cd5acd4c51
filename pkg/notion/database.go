package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// FindContactByEmail looks up the contact page holding the given address,
// or nil when none exists. Email is the dedupe key for the contact
// database, so one result is all the sync ever needs.
func FindContactByEmail(ctx context.Context, c Client, dbID, email string) (*notionapi.Page, error) {
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Email",
			RichText: &notionapi.TextFilterCondition{Equals: email},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "notion: find contact by email")
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}
