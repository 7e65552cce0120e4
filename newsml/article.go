package newsml

import (
	"strings"

	readability "github.com/go-shiori/go-readability"

	"efewire/notices"
	"efewire/types"
)

// ProviderTypeMultimedia is the single supported provider type. Items
// carrying any other type are skipped, not treated as data errors.
const ProviderTypeMultimedia = "Multimedia"

// Extractor builds normalized Articles from NewsItem nodes.
type Extractor struct {
	log *notices.Log
}

// NewExtractor returns an extractor reporting to the given notice log.
func NewExtractor(log *notices.Log) *Extractor {
	return &Extractor{log: log}
}

// Build normalizes one news item. It never fails the caller: every
// extraction problem, including unexpected panics from malformed
// structures, marks the article invalid and is logged, so one bad item
// cannot abort the batch.
func (e *Extractor) Build(item *Node) (a *types.Article) {
	a = &types.Article{GUID: item.Attr("Duid")}
	defer func() {
		if r := recover(); r != nil {
			a.Valid = false
			e.log.Errorf("newsml: item %s: extraction panic: %v", a.GUID, r)
		}
	}()

	main := mainComponent(item)
	if main == nil {
		e.log.Errorf("newsml: item %s has no main component", a.GUID)
		return a
	}

	providerType := main.Find("Role").Attr("FormalName")
	if providerType != ProviderTypeMultimedia {
		e.log.Warnf("newsml: item %s has unsupported provider type %q", a.GUID, providerType)
		return a
	}

	ix := newIndex(item)
	mainDuid := main.Attr("Duid")

	text, err := extractText(ix, mainDuid)
	if err != nil {
		e.log.Errorf("newsml: item %s: %v", a.GUID, err)
		return a
	}
	a.Title = text.Title
	a.PublishedAt = text.PublishedAt
	a.Description = text.Description
	a.Body = text.Body

	a.PublicID = item.Find("Identification", "NewsIdentifier", "PublicIdentifier").InnerText()
	if rev := item.Find("NewsManagement", "ThisRevisionCreated").InnerText(); rev != "" {
		if t, err := parseWireDate(rev); err == nil {
			a.UpdatedAt = t
		}
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.PublishedAt
	}

	if a.Description == "" {
		a.Description = excerptFromBody(a.Body)
	}

	a.SubjectCodes = extractSubjects(main, mainDuid, e.log)
	a.Image = extractPhoto(ix, mainDuid, a.PublishedAt, e.log)
	a.Valid = true
	return a
}

// mainComponent is the first NewsComponent child carrying a Duid.
func mainComponent(item *Node) *Node {
	for _, c := range item.Children {
		if c.Name == "NewsComponent" && c.Attr("Duid") != "" {
			return c
		}
	}
	return nil
}

// excerptFromBody derives a short description from the body markup for
// items that ship without an abstract.
func excerptFromBody(body string) string {
	if body == "" {
		return ""
	}
	doc := "<html><body>" + body + "</body></html>"
	art, err := readability.FromReader(strings.NewReader(doc), nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(art.Excerpt)
}
