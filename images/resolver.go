// Package images resolves remote wire photos to files under the
// uploads root, deduplicated by filename.
package images

import (
	"context"
	"strings"

	"efewire/notices"
	"efewire/storage"
	"efewire/types"
)

// Fetcher is the download primitive the resolver uses; the source tag
// routes provider-specific transport behavior.
type Fetcher interface {
	Download(ctx context.Context, rawURL, sourceTag string) ([]byte, error)
}

// Resolver stores images at <uploads>/<year>/<month>/<filename>. A file
// already present at that path counts as downloaded; content is never
// re-verified against the remote.
type Resolver struct {
	files      *storage.Local
	fetcher    Fetcher
	publicBase string
	log        *notices.Log
}

// NewResolver builds a resolver. publicBase, when set, is the URL
// prefix under which the uploads root is served; local URLs are
// reported beneath it instead of as filesystem paths.
func NewResolver(files *storage.Local, fetcher Fetcher, publicBase string, log *notices.Log) *Resolver {
	return &Resolver{
		files:      files,
		fetcher:    fetcher,
		publicBase: strings.TrimRight(publicBase, "/"),
		log:        log,
	}
}

// LocalURL returns the resolved location of the image, downloading it
// on first use. Returns "" for images that are invalid or whose
// download fails; the failure is recorded on the image and logged, and
// never propagates to the caller.
func (r *Resolver) LocalURL(ctx context.Context, img *types.Image, sourceTag string) string {
	if img == nil {
		return ""
	}
	if img.LocalURL != "" {
		return img.LocalURL
	}
	if !img.IsValid() {
		return ""
	}
	r.download(ctx, img, sourceTag)
	return img.LocalURL
}

func (r *Resolver) download(ctx context.Context, img *types.Image, sourceTag string) {
	year := img.PublishedAt.Format("2006")
	month := img.PublishedAt.Format("01")

	if r.files.Exists(year, month, img.Filename) {
		img.LocalURL = r.resolvedURL(year, month, img.Filename)
		return
	}

	data, err := r.fetcher.Download(ctx, img.DownloadURL, sourceTag)
	if err != nil {
		img.Failed = true
		r.log.Errorf("images: downloading %s: %v", img.Filename, err)
		return
	}
	if _, err := r.files.Write(data, year, month, img.Filename); err != nil {
		img.Failed = true
		r.log.Errorf("images: writing %s: %v", img.Filename, err)
		return
	}
	img.LocalURL = r.resolvedURL(year, month, img.Filename)
}

func (r *Resolver) resolvedURL(year, month, filename string) string {
	if r.publicBase != "" {
		return r.publicBase + "/" + year + "/" + month + "/" + filename
	}
	return r.files.Path(year, month, filename)
}
