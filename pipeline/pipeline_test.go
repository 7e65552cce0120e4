package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"efewire/efe"
	"efewire/images"
	"efewire/notices"
	"efewire/settings"
	"efewire/storage"
	"efewire/types"
)

const wirePayload = `<NewsML>
  <NewsItem Duid="efe123">
    <Identification>
      <NewsIdentifier>
        <PublicIdentifier>urn:newsml:efeservicios.com:20240312:efe123:1</PublicIdentifier>
      </NewsIdentifier>
    </Identification>
    <NewsManagement><ThisRevisionCreated>20240312T113000+0000</ThisRevisionCreated></NewsManagement>
    <NewsComponent Duid="m1">
      <Role FormalName="Multimedia"/>
      <NewsComponent Duid="m1.texts" Euid="t1">
        <NewsLines>
          <HeadLine>Wire headline</HeadLine>
          <SubHeadLine>Abstract</SubHeadLine>
          <DateLine>20240312T101500+0000</DateLine>
        </NewsLines>
        <ContentItem><DataContent><nitf><body><body.content>
          <p>Body text.</p>
        </body.content></body></nitf></DataContent></ContentItem>
      </NewsComponent>
      <NewsComponent Duid="m1.photos" Euid="p1">
        <NewsComponent Duid="m1.photos.file">
          <ContentItem Href="HOST/media/photo.jpg">
            <MimeType FormalName="image/jpeg"/>
            <Characteristics>
              <SizeInBytes>500</SizeInBytes>
              <Property FormalName="Width" Value="1024"/>
              <Property FormalName="Height" Value="768"/>
              <Property FormalName="Filename" Value="photo.jpg"/>
            </Characteristics>
          </ContentItem>
        </NewsComponent>
      </NewsComponent>
    </NewsComponent>
  </NewsItem>
  <NewsItem Duid="skipme">
    <NewsComponent Duid="m2"><Role FormalName="Text"/></NewsComponent>
  </NewsItem>
</NewsML>`

func newTestPipeline(t *testing.T) (*Pipeline, settings.Store, *storage.Local) {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/account/token":
			w.Write([]byte(`"tok"`))
		case strings.HasPrefix(r.URL.Path, "/content/"):
			w.Write([]byte(strings.ReplaceAll(wirePayload, "HOST", srv.URL)))
		case strings.HasPrefix(r.URL.Path, "/media/"):
			w.Write([]byte("jpegbytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	store := settings.NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, settings.KeyClientID, "id")
	store.Set(ctx, settings.KeyClientSecret, "secret")
	store.Set(ctx, settings.KeyProductID, "prod")

	log := notices.New()
	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	source := efe.NewSource(srv.URL, store, log)
	resolver := images.NewResolver(files, source, "", log)
	return New(source, store, resolver, files, nil, log), store, files
}

func TestRunWritesFeedDocument(t *testing.T) {
	p, store, files := newTestPipeline(t)

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Total != 2 || report.Valid != 1 {
		t.Fatalf("report = %d total / %d valid; want 2/1", report.Total, report.Valid)
	}

	data, err := os.ReadFile(files.Path(settings.DefaultOutputFile))
	if err != nil {
		t.Fatalf("reading feed document: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Wire headline") {
		t.Fatal("feed document is missing the article")
	}
	if strings.Contains(out, "skipme") {
		t.Fatal("unsupported item leaked into the feed")
	}
	if !strings.Contains(out, "<enclosure") {
		t.Fatal("resolved image should render an enclosure")
	}

	// The image was cached under year/month of the publish date.
	if _, err := os.Stat(files.Path("2024", "03", "photo.jpg")); err != nil {
		t.Fatalf("image not cached: %v", err)
	}

	if last, _ := store.Get(context.Background(), settings.KeyLastRun); last == "" {
		t.Fatal("last successful run stamp not recorded")
	}
}

func TestRunHonorsOutputFilenameSetting(t *testing.T) {
	p, store, files := newTestPipeline(t)
	store.Set(context.Background(), settings.KeyOutputFile, "custom.xml")

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if _, err := os.Stat(files.Path("custom.xml")); err != nil {
		t.Fatalf("custom output filename not honored: %v", err)
	}
}

func TestRunFailsWithoutValidArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/account/token" {
			w.Write([]byte(`"tok"`))
			return
		}
		w.Write([]byte(`<NewsML><NewsItem Duid="a"><NewsComponent Duid="m"><Role FormalName="Text"/></NewsComponent></NewsItem></NewsML>`))
	}))
	t.Cleanup(srv.Close)

	store := settings.NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, settings.KeyClientID, "id")
	store.Set(ctx, settings.KeyClientSecret, "secret")
	store.Set(ctx, settings.KeyProductID, "prod")

	log := notices.New()
	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	source := efe.NewSource(srv.URL, store, log)
	p := New(source, store, images.NewResolver(files, source, "", log), files, nil, log)

	_, err = p.Run(ctx)
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("Run error = %v; want ErrValidation", err)
	}
}

func TestStale(t *testing.T) {
	p, store, _ := newTestPipeline(t)
	ctx := context.Background()

	if !p.Stale(ctx) {
		t.Fatal("a pipeline that never ran is stale")
	}

	store.Set(ctx, settings.KeyLastRun, time.Now().Add(-time.Hour).Format(time.RFC3339))
	if p.Stale(ctx) {
		t.Fatal("a one hour old run is fresh")
	}

	store.Set(ctx, settings.KeyLastRun, time.Now().Add(-4*time.Hour).Format(time.RFC3339))
	if !p.Stale(ctx) {
		t.Fatal("a four hour old run exceeds the freshness threshold")
	}
}
