// Package pipeline runs one ingestion pass end to end: fetch the wire
// payload, decode it, build articles, resolve images, and write the
// feed document. Runs are serialized; the cron trigger and the manual
// admin trigger share one mutex.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"efewire/efe"
	"efewire/images"
	"efewire/newsml"
	"efewire/notices"
	"efewire/settings"
	"efewire/storage"
	"efewire/syndication"
	"efewire/types"
)

// FreshnessThreshold is how old the last successful run may be before
// failures are surfaced as a standing warning instead of being treated
// as transient.
const FreshnessThreshold = 3 * time.Hour

// Report summarizes one completed run.
type Report struct {
	Total      int           `json:"total"`
	Valid      int           `json:"valid"`
	OutputPath string        `json:"output_path"`
	Duration   time.Duration `json:"duration"`
}

// Pipeline wires the ingestion components together.
type Pipeline struct {
	source   *efe.Source
	store    settings.Store
	resolver *images.Resolver
	files    *storage.Local
	mirror   *storage.Mirror // optional
	log      *notices.Log

	mu  sync.Mutex
	now func() time.Time
}

// New assembles a pipeline. mirror may be nil.
func New(source *efe.Source, store settings.Store, resolver *images.Resolver, files *storage.Local, mirror *storage.Mirror, log *notices.Log) *Pipeline {
	return &Pipeline{
		source:   source,
		store:    store,
		resolver: resolver,
		files:    files,
		mirror:   mirror,
		log:      log,
		now:      time.Now,
	}
}

// Run executes one ingestion pass. Feed-level failures (config, auth,
// network, server, parse, empty body, zero valid articles) abort the
// run and are returned; per-item failures are contained inside the
// extractors and resolver.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.now()

	raw, err := p.source.FetchFeed(ctx)
	if err != nil {
		p.log.Errorf("pipeline: feed fetch: %v", err)
		return nil, err
	}

	doc := newsml.NewDocument(raw)
	items, err := doc.Items()
	if err != nil {
		p.log.Errorf("pipeline: decoding payload: %v", err)
		return nil, err
	}

	extractor := newsml.NewExtractor(p.log)
	collection := syndication.NewCollection()
	for _, item := range items {
		collection.AddArticle(extractor.Build(item))
	}

	if !collection.IsValid() {
		err := fmt.Errorf("%w: %d items, none usable", types.ErrValidation, len(items))
		p.log.Errorf("pipeline: %v", err)
		return nil, err
	}

	collection.ResolveImages(ctx, p.resolver, efe.SourceTag)

	feed, err := collection.SerializeRSS()
	if err != nil {
		return nil, err
	}

	outputName, _ := p.store.Get(ctx, settings.KeyOutputFile)
	if outputName == "" {
		outputName = settings.DefaultOutputFile
	}
	outputPath, err := p.files.Write([]byte(feed), outputName)
	if err != nil {
		p.log.Errorf("pipeline: writing feed document: %v", err)
		return nil, err
	}

	if err := p.store.Set(ctx, settings.KeyLastRun, p.now().Format(time.RFC3339)); err != nil {
		p.log.Errorf("pipeline: recording run stamp: %v", err)
	}

	p.mirrorOutput(ctx, outputName, []byte(feed), collection)

	report := &Report{
		Total:      len(items),
		Valid:      collection.ValidCount(),
		OutputPath: outputPath,
		Duration:   p.now().Sub(start),
	}
	p.log.Infof("pipeline: run complete, %d/%d articles in %s", report.Valid, report.Total, report.OutputPath)
	return report, nil
}

// mirrorOutput copies the feed document and any resolved images to S3
// when a mirror is configured. Mirror failures are logged, never fatal.
func (p *Pipeline) mirrorOutput(ctx context.Context, outputName string, feed []byte, c *syndication.Collection) {
	if p.mirror == nil {
		return
	}
	if err := p.mirror.Put(ctx, outputName, feed, "application/rss+xml"); err != nil {
		p.log.Errorf("pipeline: mirroring feed document: %v", err)
	}
	for _, a := range c.Articles() {
		img := a.Image
		if !a.IsValid() || img == nil || img.LocalURL == "" {
			continue
		}
		key := fmt.Sprintf("%s/%s/%s", img.PublishedAt.Format("2006"), img.PublishedAt.Format("01"), img.Filename)
		if ok, err := p.mirror.Exists(ctx, key); err == nil && ok {
			continue
		}
		data, err := readLocalImage(p.files, img)
		if err != nil {
			p.log.Errorf("pipeline: reading %s for mirror: %v", img.Filename, err)
			continue
		}
		if err := p.mirror.Put(ctx, key, data, img.MimeType); err != nil {
			p.log.Errorf("pipeline: mirroring %s: %v", img.Filename, err)
		}
	}
}

func readLocalImage(files *storage.Local, img *types.Image) ([]byte, error) {
	return os.ReadFile(files.Path(img.PublishedAt.Format("2006"), img.PublishedAt.Format("01"), img.Filename))
}

// Stale reports whether the last successful run is older than the
// freshness threshold; only then are failures worth a standing warning.
func (p *Pipeline) Stale(ctx context.Context) bool {
	raw, err := p.store.Get(ctx, settings.KeyLastRun)
	if err != nil || raw == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return true
	}
	return p.now().Sub(last) > FreshnessThreshold
}

// LastRun returns the last successful run stamp, zero when none.
func (p *Pipeline) LastRun(ctx context.Context) time.Time {
	raw, err := p.store.Get(ctx, settings.KeyLastRun)
	if err != nil || raw == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, raw)
	return t
}
