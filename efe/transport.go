package efe

import (
	"crypto/tls"
	"net/http"
	"time"
)

// SourceTag identifies downloads that must go through the provider's
// transport rather than a plain client.
const SourceTag = "efe"

// newClient builds the HTTP client for provider calls. The provider's
// endpoints only complete a handshake with an RSA key-exchange cipher
// suite on TLS 1.2, so the suite is pinned here and nowhere else; calls
// to any other host use a default client.
func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MaxVersion:   tls.VersionTLS12,
				CipherSuites: []uint16{tls.TLS_RSA_WITH_AES_128_GCM_SHA256},
			},
		},
	}
}
