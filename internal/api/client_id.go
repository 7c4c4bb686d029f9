package api

import (
	"net/http"
	"strings"
)

// DefaultClientID identifies requests that carry no forwarding header. All
// such clients share one quota.
const DefaultClientID = "127.0.0.1"

// ClientID identifies an anonymous caller for rate limiting: the first entry
// of X-Forwarded-For, or DefaultClientID when the header is absent or blank.
func ClientID(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	if id := strings.TrimSpace(first); id != "" {
		return id
	}
	return DefaultClientID
}
