// Package settings is the persisted key/value configuration store:
// provider credentials, the enabled flag, the cached token and the
// last-successful-run stamp all live here so they survive restarts and
// can be edited from the admin API.
package settings

import "context"

// Keys used by the pipeline. Values are plain strings; timestamps are
// stored in RFC 3339 form.
const (
	KeyClientID     = "efe_client_id"
	KeyClientSecret = "efe_client_secret"
	KeyProductID    = "efe_product_id"
	KeyEnabled      = "efe_enabled"
	KeyToken        = "efe_token"
	KeyTokenExpiry  = "efe_token_expiry"
	KeyLastRun      = "efe_last_run"
	KeyOutputFile   = "efe_output_filename"
)

// DefaultOutputFile is used when KeyOutputFile is unset.
const DefaultOutputFile = "efe_articles.xml"

// Store is the narrow interface the pipeline needs from the
// configuration store. Get returns "" (and no error) for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
