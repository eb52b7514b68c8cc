// Package export mirrors graded quiz answers to external workspaces.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/abhisek/gainbrain/internal/store"
)

// Notion caps a single rich text object at 2000 characters.
const maxRichText = 2000

// pageCreator is the part of notionapi.PageService the exporter uses.
type pageCreator interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// NotionExporter adds one page per graded answer to a Notion database
// with the columns Question (title), Answer, FollowUp, User and Date.
type NotionExporter struct {
	pages      pageCreator
	databaseID notionapi.DatabaseID
}

// NewNotionExporter connects with an integration token. The database must
// be shared with the integration.
func NewNotionExporter(token, databaseID string) (*NotionExporter, error) {
	if token == "" || databaseID == "" {
		return nil, errors.New("notion: token and database ID are required")
	}
	client := notionapi.NewClient(notionapi.Token(token))
	return &NotionExporter{pages: client.Page, databaseID: notionapi.DatabaseID(databaseID)}, nil
}

func (x *NotionExporter) Export(ctx context.Context, rec store.AnswerRecord, followUp string) error {
	date := notionapi.Date(rec.Timestamp)
	props := notionapi.Properties{
		"Question": notionapi.TitleProperty{Title: richText(rec.Question)},
		"Answer":   notionapi.RichTextProperty{RichText: richText(rec.CorrectAnswer)},
		"User":     notionapi.RichTextProperty{RichText: richText(rec.Username)},
		"Date":     notionapi.DateProperty{Date: &notionapi.DateObject{Start: &date}},
	}
	if followUp != "" {
		props["FollowUp"] = notionapi.RichTextProperty{RichText: richText(followUp)}
	}

	_, err := x.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: x.databaseID,
		},
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("notion: create page: %w", err)
	}
	return nil
}

func richText(s string) []notionapi.RichText {
	if r := []rune(s); len(r) > maxRichText {
		s = string(r[:maxRichText])
	}
	return []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}
}
