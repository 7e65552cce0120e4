package syndication

import (
	"encoding/xml"
	"fmt"
	"time"

	"efewire/types"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	NS      string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	Updated string      `xml:"updated"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string      `xml:"title"`
	IDs       []string    `xml:"id"`
	Updated   string      `xml:"updated"`
	Published string      `xml:"published"`
	Content   atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// renderAtomEntry builds an entry for one valid article. Besides the
// guid, the wire variant injects a second id element carrying the
// public identifier (urn:newsml:...), matching what downstream
// consumers of this feed expect.
func renderAtomEntry(a *types.Article) atomEntry {
	ids := []string{a.GUID}
	if a.PublicID != "" {
		ids = append(ids, a.PublicID)
	}
	return atomEntry{
		Title:     a.Title,
		IDs:       ids,
		Updated:   a.UpdatedAt.Format(time.RFC3339),
		Published: a.PublishedAt.Format(time.RFC3339),
		Content:   atomContent{Type: "html", Text: a.Body},
	}
}

func renderAtom(articles []*types.Article, fallback time.Time) (string, error) {
	// The feed-level updated element is the newest entry revision, so
	// serializing unchanged content yields an identical document.
	updated := time.Time{}
	for _, a := range articles {
		if a.IsValid() && a.UpdatedAt.After(updated) {
			updated = a.UpdatedAt
		}
	}
	if updated.IsZero() {
		updated = fallback
	}

	feed := atomFeed{
		NS:      "http://www.w3.org/2005/Atom",
		Title:   ChannelTitle,
		Updated: updated.Format(time.RFC3339),
	}
	for _, a := range articles {
		if a.IsValid() {
			feed.Entries = append(feed.Entries, renderAtomEntry(a))
		}
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding atom: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
