package types

import "time"

// Article is the normalized form of one NewsML news item.
// It is built once during extraction and not mutated afterwards,
// except for the lazily resolved local URL on its featured image.
type Article struct {
	GUID         string    `json:"guid"`
	Title        string    `json:"title"`
	PublishedAt  time.Time `json:"published_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Description  string    `json:"description,omitempty"`
	Body         string    `json:"body"`
	SubjectCodes []string  `json:"subject_codes,omitempty"`
	PublicID     string    `json:"public_id,omitempty"`
	Image        *Image    `json:"image,omitempty"`
	Valid        bool      `json:"valid"`
}

// IsValid reports whether the article came from the supported provider
// type and its text structure was extracted successfully.
func (a *Article) IsValid() bool {
	return a != nil && a.Valid
}
