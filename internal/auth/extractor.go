package auth

import (
	"net/http"
	"strings"
)

// Extractor locates a raw credential on a request. It never decodes it.
type Extractor interface {
	Extract(r *http.Request) (string, bool)
}

// CookieExtractor reads a single named cookie.
type CookieExtractor struct {
	Name string
}

func (e CookieExtractor) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(e.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// BearerExtractor accepts only "Authorization: Bearer <token>".
type BearerExtractor struct{}

func (BearerExtractor) Extract(r *http.Request) (string, bool) {
	header := r.Header.Get(headerAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.Split(header, " ")
	if len(parts) != authHeaderParts || parts[0] != bearerScheme || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// NewExtractor returns the extractor for transport. Unknown transports get
// the cookie extractor.
func NewExtractor(transport Transport, cookieName string) Extractor {
	if transport == TransportBearer {
		return BearerExtractor{}
	}
	return CookieExtractor{Name: cookieName}
}
