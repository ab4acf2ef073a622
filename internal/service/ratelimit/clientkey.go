package ratelimit

import (
	"net/http"
	"strings"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
)

// ClientKey derives the admission key from the request-origin headers: the first
// X-Forwarded-For hop, then X-Real-IP, then a shared "unknown" bucket.
func ClientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return constants.RateLimitConfig.UnknownClient
}
