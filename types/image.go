package types

import "time"

// Image is the featured photo attached to an Article. It is owned by
// exactly one article. LocalURL stays empty until the image has been
// resolved to a file under the uploads root.
type Image struct {
	DownloadURL string    `json:"download_url"`
	Filename    string    `json:"filename"`
	Filesize    int64     `json:"filesize"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	MimeType    string    `json:"mime_type"`
	Caption     string    `json:"caption,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	LocalURL    string    `json:"local_url,omitempty"`
	Failed      bool      `json:"failed,omitempty"`
}

// IsValid reports whether the image can still be downloaded: both the
// download URL and the filename are known and no earlier attempt failed.
func (im *Image) IsValid() bool {
	return im != nil && im.DownloadURL != "" && im.Filename != "" && !im.Failed
}
