package newsml

import (
	"fmt"
	"time"

	"efewire/types"
)

// textResult holds what the text structure of an item yields.
type textResult struct {
	Title       string
	PublishedAt time.Time
	Description string
	Body        string
}

// Timestamp layouts seen on the wire: ISO 8601 basic, with and without
// a zone designator.
var dateLayouts = []string{
	"20060102T150405-0700",
	"20060102T150405Z",
	"20060102T150405",
}

func parseWireDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// extractText locates the text structure of an item (first component
// whose Duid starts with "<mainDuid>.texts" and that carries a Euid)
// and reads title, publish date, optional description and the body.
// The first match in document order wins; no recency comparison.
func extractText(ix *index, mainDuid string) (*textResult, error) {
	comp := ix.firstWithPrefix(mainDuid+".texts", true)
	if comp == nil {
		return nil, fmt.Errorf("%w: no text structure under %s", types.ErrExtraction, mainDuid)
	}

	title := comp.Find("NewsLines", "HeadLine").InnerText()
	if title == "" {
		return nil, fmt.Errorf("%w: text structure %s has no headline", types.ErrExtraction, comp.Attr("Duid"))
	}

	published, err := parseWireDate(comp.Find("NewsLines", "DateLine").InnerText())
	if err != nil {
		return nil, fmt.Errorf("%w: text structure %s: %v", types.ErrExtraction, comp.Attr("Duid"), err)
	}

	body := comp.Find("ContentItem", "DataContent", "nitf", "body", "body.content")
	if body == nil {
		return nil, fmt.Errorf("%w: text structure %s has no body content", types.ErrExtraction, comp.Attr("Duid"))
	}

	return &textResult{
		Title:       title,
		PublishedAt: published,
		Description: comp.Find("NewsLines", "SubHeadLine").InnerText(),
		Body:        body.InnerXML(),
	}, nil
}
