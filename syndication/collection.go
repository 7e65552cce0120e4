// Package syndication aggregates normalized articles and assembles the
// output feed document. Image resolution is an explicit step run before
// serialization, so rendering itself performs no network calls.
package syndication

import (
	"context"
	"fmt"
	"time"

	"efewire/images"
	"efewire/types"
)

// Collection is one ingestion run's articles in source-document order.
type Collection struct {
	articles []*types.Article
	now      func() time.Time
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{now: time.Now}
}

// AddArticle appends an article. Invalid articles stay in the sequence
// for accounting but never render into the feed document.
func (c *Collection) AddArticle(a *types.Article) {
	c.articles = append(c.articles, a)
}

// Articles returns the articles in insertion order.
func (c *Collection) Articles() []*types.Article {
	return c.articles
}

// ValidCount returns how many articles will render into the feed.
func (c *Collection) ValidCount() int {
	n := 0
	for _, a := range c.articles {
		if a.IsValid() {
			n++
		}
	}
	return n
}

// IsValid reports whether the collection can produce a feed document.
func (c *Collection) IsValid() bool {
	return c.ValidCount() > 0
}

// ResolveImages downloads every pending featured image through the
// resolver. Failures are isolated per image: the article stays in the
// feed, just without an enclosure.
func (c *Collection) ResolveImages(ctx context.Context, r *images.Resolver, sourceTag string) {
	for _, a := range c.articles {
		if a.IsValid() && a.Image != nil {
			r.LocalURL(ctx, a.Image, sourceTag)
		}
	}
}

// SerializeRSS returns the RSS 2.0 document, or ErrValidation when the
// run produced zero valid articles.
func (c *Collection) SerializeRSS() (string, error) {
	if !c.IsValid() {
		return "", fmt.Errorf("%w: collection is empty", types.ErrValidation)
	}
	return renderRSS(c.articles, c.now())
}

// SerializeAtom returns the Atom variant of the document.
func (c *Collection) SerializeAtom() (string, error) {
	if !c.IsValid() {
		return "", fmt.Errorf("%w: collection is empty", types.ErrValidation)
	}
	return renderAtom(c.articles, c.now())
}
