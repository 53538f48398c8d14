package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// progressPath is the fixed suffix appended to the engine base address to
// reach its progress stream.
const progressPath = "/ws/progress"

// DeriveURL maps the engine's base address onto the push endpoint address,
// translating HTTP schemes to their WebSocket counterparts while preserving
// host and path.
func DeriveURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("transport: parse base address: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("transport: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("transport: base address %q has no host", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + progressPath
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
