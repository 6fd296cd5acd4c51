package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Lead is the subset of Salesforce Lead fields the contact sync reads
// back when checking for existing records.
type Lead struct {
	ID    string `json:"Id" salesforce:"Id"`
	Email string `json:"Email" salesforce:"Email"`
}

// FindLeadsByEmail returns a map from lowercased email to Lead ID for
// every existing Lead matching one of the given addresses. Blank
// addresses are ignored; an empty input returns an empty map without a
// query.
func FindLeadsByEmail(ctx context.Context, c Client, emails []string) (map[string]string, error) {
	quoted := make([]string, 0, len(emails))
	for _, e := range emails {
		if e == "" {
			continue
		}
		quoted = append(quoted, "'"+escapeSoql(e)+"'")
	}
	if len(quoted) == 0 {
		return map[string]string{}, nil
	}

	soql := fmt.Sprintf("SELECT Id, Email FROM Lead WHERE Email IN (%s)", strings.Join(quoted, ", "))

	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, "sf: find leads by email")
	}

	out := make(map[string]string, len(leads))
	for _, l := range leads {
		out[strings.ToLower(l.Email)] = l.ID
	}
	return out, nil
}

// escapeSoql escapes single quotes in a SOQL string literal.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
