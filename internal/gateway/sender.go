package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// Tab identifies the browser tab a request came from.
type Tab struct {
	ID  int
	URL string
}

// Sender describes the origin of an inbound request: either the extension's
// own runtime (popup, settings UI) or a content script in a tab.
type Sender struct {
	// ID is the runtime identity of the sending extension.
	ID string
	// Origin is the declared web origin of the sender, if any.
	Origin string
	// Tab is set when the request comes from a content script.
	Tab *Tab
}

// key returns the rate-limiting identity of the sender.
func (s Sender) key() string {
	if s.Tab != nil {
		return fmt.Sprintf("tab_%d", s.Tab.ID)
	}
	if s.ID != "" {
		return s.ID
	}
	return "unknown"
}

// privilegedSchemes are browser-internal page prefixes that must never carry
// vault requests.
var privilegedSchemes = []string{
	"chrome://",
	"chrome-extension://",
	"edge://",
	"about:",
}

// validate decides whether the sender may talk to the vault at all. The
// extension's own runtime is always trusted; a tab sender must carry a real
// web URL whose origin matches what the sender declared.
func (s Sender) validate(runtimeID string) bool {
	if runtimeID != "" && s.ID == runtimeID && s.Tab == nil {
		return true
	}
	if s.Tab == nil {
		return false
	}
	if s.Tab.URL == "" {
		return false
	}
	for _, scheme := range privilegedSchemes {
		if strings.HasPrefix(s.Tab.URL, scheme) {
			return false
		}
	}
	if s.Origin != "" {
		origin, err := originOf(s.Tab.URL)
		if err != nil || origin != s.Origin {
			return false
		}
	}
	return true
}

// originOf reduces a URL to its scheme://host[:port] origin.
func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute url: %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
