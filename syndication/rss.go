package syndication

import (
	"encoding/xml"
	"fmt"
	"time"

	"efewire/types"
)

// Fixed channel metadata for the generated document.
const (
	ChannelTitle       = "EFE Noticias"
	ChannelLink        = "https://efeservicios.com"
	ChannelDescription = "Agencia EFE multimedia wire"
	ChannelLanguage    = "es"
)

type rssDoc struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	PubDate     string    `xml:"pubDate"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	GUID        rssGUID       `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Description string        `xml:"description,omitempty"`
	Content     cdata         `xml:"content:encoded"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

// rssGUID is marked not-a-permalink: provider guids are identifiers,
// not resolvable URLs.
type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink string `xml:"isPermaLink,attr"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// renderRSSItem builds the item element for one valid article. The
// enclosure is emitted only when the image survived resolution to a
// local URL.
func renderRSSItem(a *types.Article) rssItem {
	item := rssItem{
		Title:       a.Title,
		GUID:        rssGUID{Value: a.GUID, IsPermaLink: "false"},
		PubDate:     a.PublishedAt.Format(time.RFC1123Z),
		Description: a.Description,
		Content:     cdata{Text: a.Body},
	}
	if a.Image != nil && a.Image.IsValid() && a.Image.LocalURL != "" {
		item.Enclosure = &rssEnclosure{
			URL:    a.Image.LocalURL,
			Length: a.Image.Filesize,
			Type:   a.Image.MimeType,
		}
	}
	return item
}

func renderRSS(articles []*types.Article, pubDate time.Time) (string, error) {
	doc := rssDoc{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		Channel: rssChannel{
			Title:       ChannelTitle,
			Link:        ChannelLink,
			Description: ChannelDescription,
			Language:    ChannelLanguage,
			PubDate:     pubDate.Format(time.RFC1123Z),
		},
	}
	for _, a := range articles {
		if a.IsValid() {
			doc.Channel.Items = append(doc.Channel.Items, renderRSSItem(a))
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding rss: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
