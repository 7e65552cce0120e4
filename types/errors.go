package types

import (
	"errors"
	"fmt"
)

// Error kinds for the ingestion pipeline. Feed-level kinds abort a run;
// ErrExtraction and ErrDownload are contained to a single article.
var (
	// ErrConfig means a required credential (client id, client secret or
	// product id) is not configured.
	ErrConfig = errors.New("missing credentials")

	// ErrAuthConfig means the provider rejected the configured credentials.
	ErrAuthConfig = errors.New("credentials rejected")

	// ErrAuthExpired means the provider rejected a previously valid token.
	ErrAuthExpired = errors.New("token rejected")

	// ErrNetwork is a transport-level failure before any HTTP status.
	ErrNetwork = errors.New("network failure")

	// ErrNoData is a 200 response with an empty body.
	ErrNoData = errors.New("empty response body")

	// ErrParse means the NewsML payload is not well-formed XML.
	ErrParse = errors.New("malformed document")

	// ErrExtraction means a required substructure is missing from an item.
	ErrExtraction = errors.New("required structure missing")

	// ErrDownload is an image fetch or write failure.
	ErrDownload = errors.New("image download failed")

	// ErrValidation means a run produced zero valid articles.
	ErrValidation = errors.New("no valid articles")
)

// ServerError is an unexpected HTTP status from the provider.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("unexpected provider status %d", e.StatusCode)
}
