package preview

import "strings"

var externalPrefixes = []string{"http://", "https://", "www."}

// IsExternal reports whether a link leaves the preview for the system browser.
// Every other navigation is refused so the surface keeps showing the reply.
func IsExternal(uri string) bool {
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(uri, prefix) {
			return true
		}
	}
	return false
}

// ExternalURL makes a bare www. link openable.
func ExternalURL(uri string) string {
	if strings.HasPrefix(uri, "www.") {
		return "https://" + uri
	}
	return uri
}
