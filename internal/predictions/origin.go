package predictions

import (
	"net"
	"net/http"
	"strings"

	"github.com/JaimeStill/douane/internal/audit"
)

// UnknownOrigin is recorded when no client address is available.
const UnknownOrigin = "unknown"

// ClientOrigin returns the first X-Forwarded-For entry, else the host part of
// RemoteAddr, else UnknownOrigin. The value is informational only.
func ClientOrigin(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return audit.TruncateClientIP(first)
		}
	}

	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return UnknownOrigin
	}

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return UnknownOrigin
	}

	return audit.TruncateClientIP(addr)
}
