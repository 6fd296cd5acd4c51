package sync

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/notion"
)

// NotionTarget pushes contacts as pages in a Notion database.
type NotionTarget struct {
	client notion.Client
	dbID   string
}

// NewNotionTarget creates a Notion sync target writing to the given
// contact database.
func NewNotionTarget(client notion.Client, dbID string) *NotionTarget {
	return &NotionTarget{client: client, dbID: dbID}
}

func (t *NotionTarget) Name() string { return "notion" }

// PushContacts upserts one page per person: a page already holding the
// person's email is updated in place, everything else is created. Page
// writes are per-record in the Notion API, so a rejected record only
// costs that record.
func (t *NotionTarget) PushContacts(ctx context.Context, persons []model.Person) (*Result, error) {
	result := &Result{Target: t.Name()}

	for _, p := range persons {
		if strings.TrimSpace(p.Name) == "" {
			result.Skipped++
			continue
		}

		if err := t.pushOne(ctx, p, result); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			zap.L().Warn("sync: notion page write failed",
				zap.String("person", p.Name),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("sync: notion push complete",
		zap.Int("pushed", result.Pushed),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (t *NotionTarget) pushOne(ctx context.Context, p model.Person, result *Result) error {
	if p.Email != "" {
		page, err := notion.FindContactByEmail(ctx, t.client, t.dbID, p.Email)
		if err != nil {
			return err
		}
		if page != nil {
			_, err = t.client.UpdatePage(ctx, string(page.ID), &notionapi.PageUpdateRequest{
				Properties: t.pageProperties(p),
			})
			if err != nil {
				return err
			}
			result.Updated++
			return nil
		}
	}

	_, err := t.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(t.dbID),
		},
		Properties: t.pageProperties(p),
	})
	if err != nil {
		return err
	}
	result.Pushed++
	return nil
}

func (t *NotionTarget) pageProperties(p model.Person) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: p.Name}}},
		},
		"Company": richText(p.Company),
		"Title":   richText(p.Title),
		"Source":  richText(string(p.Source)),
		"Certainty": notionapi.NumberProperty{
			Number: float64(p.EmailCertainty),
		},
		"Verified": notionapi.CheckboxProperty{
			Checkbox: p.EmailVerified,
		},
	}
	if p.Email != "" {
		props["Email"] = notionapi.EmailProperty{Email: p.Email}
	}
	if p.LinkedIn != "" {
		props["LinkedIn"] = notionapi.URLProperty{URL: p.LinkedIn}
	}
	return props
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: s}}},
	}
}
