package newsml

import (
	"testing"
	"time"

	"efewire/notices"
)

const sampleItem = `<NewsML>
  <NewsItem Duid="efe123">
    <Identification>
      <NewsIdentifier>
        <PublicIdentifier>urn:newsml:efeservicios.com:20240312:efe123:2</PublicIdentifier>
      </NewsIdentifier>
    </Identification>
    <NewsManagement>
      <FirstCreated>20240312T101500+0000</FirstCreated>
      <ThisRevisionCreated>20240312T113000+0000</ThisRevisionCreated>
    </NewsManagement>
    <NewsComponent Duid="8344117">
      <Role FormalName="Multimedia"/>
      <DescriptiveMetadata>
        <SubjectCode><Subject FormalName="04001002" Scheme="IptcSubjectCodes"/></SubjectCode>
        <SubjectCode><Subject FormalName="11000000" Scheme="IptcSubjectCodes"/></SubjectCode>
        <SubjectCode><Subject FormalName="x" Scheme="OtherScheme"/></SubjectCode>
      </DescriptiveMetadata>
      <NewsComponent Duid="8344117.texts" Euid="t1">
        <NewsLines>
          <HeadLine>Sample headline</HeadLine>
          <SubHeadLine>Sample abstract</SubHeadLine>
          <DateLine>20240312T101500+0000</DateLine>
        </NewsLines>
        <ContentItem>
          <DataContent>
            <nitf><body><body.content>
              <p>First <em>paragraph</em>.</p>
              <p>Second paragraph.</p>
            </body.content></body></nitf>
          </DataContent>
        </ContentItem>
      </NewsComponent>
      <NewsComponent Duid="8344117.photos" Euid="p1">
        <NewsComponent Duid="8344117.photos.file">
          <ContentItem Href="https://cdn.example.test/low.jpg">
            <MimeType FormalName="image/jpeg"/>
            <Characteristics>
              <SizeInBytes>100</SizeInBytes>
              <Property FormalName="Width" Value="320"/>
              <Property FormalName="Height" Value="240"/>
              <Property FormalName="Filename" Value="low.jpg"/>
            </Characteristics>
          </ContentItem>
          <ContentItem Href="https://cdn.example.test/high.jpg">
            <MimeType FormalName="image/jpeg"/>
            <Characteristics>
              <SizeInBytes>500</SizeInBytes>
              <Property FormalName="Width" Value="1024"/>
              <Property FormalName="Height" Value="768"/>
              <Property FormalName="Filename" Value="high.jpg"/>
            </Characteristics>
          </ContentItem>
        </NewsComponent>
        <NewsComponent Duid="8344117.photos.text">
          <ContentItem>
            <DataContent>
              <nitf><body><body.content><p>A caption.</p></body.content></body></nitf>
            </DataContent>
          </ContentItem>
        </NewsComponent>
      </NewsComponent>
    </NewsComponent>
  </NewsItem>
</NewsML>`

func firstItem(t *testing.T, raw string) *Node {
	t.Helper()
	items, err := NewDocument([]byte(raw)).Items()
	if err != nil {
		t.Fatalf("Items() error: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("no items in sample document")
	}
	return items[0]
}

func TestBuildValidArticle(t *testing.T) {
	a := NewExtractor(notices.New()).Build(firstItem(t, sampleItem))

	if !a.IsValid() {
		t.Fatal("article should be valid")
	}
	if a.GUID != "efe123" {
		t.Fatalf("GUID = %q; want efe123", a.GUID)
	}
	if a.Title != "Sample headline" {
		t.Fatalf("Title = %q", a.Title)
	}
	if a.Description != "Sample abstract" {
		t.Fatalf("Description = %q", a.Description)
	}
	wantBody := "<p>First <em>paragraph</em>.</p><p>Second paragraph.</p>"
	if a.Body != wantBody {
		t.Fatalf("Body = %q; want %q", a.Body, wantBody)
	}
	wantPub := time.Date(2024, 3, 12, 10, 15, 0, 0, time.UTC)
	if !a.PublishedAt.Equal(wantPub) {
		t.Fatalf("PublishedAt = %v; want %v", a.PublishedAt, wantPub)
	}
	wantUpd := time.Date(2024, 3, 12, 11, 30, 0, 0, time.UTC)
	if !a.UpdatedAt.Equal(wantUpd) {
		t.Fatalf("UpdatedAt = %v; want %v", a.UpdatedAt, wantUpd)
	}
	if a.PublicID != "urn:newsml:efeservicios.com:20240312:efe123:2" {
		t.Fatalf("PublicID = %q", a.PublicID)
	}

	wantCodes := []string{"04001002", "11000000"}
	if len(a.SubjectCodes) != len(wantCodes) {
		t.Fatalf("SubjectCodes = %v; want %v", a.SubjectCodes, wantCodes)
	}
	for i, c := range wantCodes {
		if a.SubjectCodes[i] != c {
			t.Fatalf("SubjectCodes[%d] = %q; want %q", i, a.SubjectCodes[i], c)
		}
	}

	img := a.Image
	if img == nil {
		t.Fatal("expected a featured image")
	}
	if img.Filename != "high.jpg" || img.Filesize != 500 {
		t.Fatalf("image selection = %s (%d bytes); want high.jpg (500)", img.Filename, img.Filesize)
	}
	if img.Width != 1024 || img.Height != 768 {
		t.Fatalf("image geometry = %dx%d; want 1024x768", img.Width, img.Height)
	}
	if img.MimeType != "image/jpeg" {
		t.Fatalf("image mime = %q", img.MimeType)
	}
	if img.Caption != "A caption." {
		t.Fatalf("image caption = %q", img.Caption)
	}
	if !img.PublishedAt.Equal(a.PublishedAt) {
		t.Fatalf("image date = %v; want article publish date", img.PublishedAt)
	}
}

func TestBuildKeepsSpacingBetweenInlineElements(t *testing.T) {
	raw := `<NewsML><NewsItem Duid="inline1">
		<NewsComponent Duid="m1">
			<Role FormalName="Multimedia"/>
			<NewsComponent Duid="m1.texts" Euid="t1">
				<NewsLines>
					<HeadLine>Inline spacing</HeadLine>
					<DateLine>20240312T101500+0000</DateLine>
				</NewsLines>
				<ContentItem><DataContent><nitf><body><body.content>
					<p>one <em>two</em> <em>three</em></p>
				</body.content></body></nitf></DataContent></ContentItem>
			</NewsComponent>
		</NewsComponent>
	</NewsItem></NewsML>`

	a := NewExtractor(notices.New()).Build(firstItem(t, raw))
	if !a.IsValid() {
		t.Fatal("article should be valid")
	}
	wantBody := "<p>one <em>two</em> <em>three</em></p>"
	if a.Body != wantBody {
		t.Fatalf("Body = %q; want %q", a.Body, wantBody)
	}
}

func TestBuildUnsupportedProviderType(t *testing.T) {
	raw := `<NewsML><NewsItem Duid="other1">
		<NewsComponent Duid="m1"><Role FormalName="Text"/></NewsComponent>
	</NewsItem></NewsML>`

	a := NewExtractor(notices.New()).Build(firstItem(t, raw))
	if a.IsValid() {
		t.Fatal("article from an unsupported provider type must be invalid")
	}
	if a.GUID != "other1" {
		t.Fatalf("GUID = %q; want other1 even when invalid", a.GUID)
	}
}

func TestBuildMissingTextStructure(t *testing.T) {
	raw := `<NewsML><NewsItem Duid="notext">
		<NewsComponent Duid="m1"><Role FormalName="Multimedia"/></NewsComponent>
	</NewsItem></NewsML>`

	a := NewExtractor(notices.New()).Build(firstItem(t, raw))
	if a.IsValid() {
		t.Fatal("article without a text structure must be invalid")
	}
}

func TestBuildWithoutPhotoIsValid(t *testing.T) {
	raw := `<NewsML><NewsItem Duid="nophoto">
		<NewsComponent Duid="m1">
			<Role FormalName="Multimedia"/>
			<NewsComponent Duid="m1.texts" Euid="t1">
				<NewsLines>
					<HeadLine>Plain text item</HeadLine>
					<DateLine>20240312T101500+0000</DateLine>
				</NewsLines>
				<ContentItem><DataContent><nitf><body><body.content>
					<p>Body.</p>
				</body.content></body></nitf></DataContent></ContentItem>
			</NewsComponent>
		</NewsComponent>
	</NewsItem></NewsML>`

	a := NewExtractor(notices.New()).Build(firstItem(t, raw))
	if !a.IsValid() {
		t.Fatal("a photo-less multimedia item is still a valid article")
	}
	if a.Image != nil {
		t.Fatal("no image expected")
	}
	if len(a.SubjectCodes) != 0 {
		t.Fatalf("SubjectCodes = %v; want none", a.SubjectCodes)
	}
}
