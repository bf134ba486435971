package audit

import (
	"strings"

	"github.com/mssola/useragent"
)

// describeClient reduces a User-Agent header to a short label such as
// "Firefox 121.0 on Linux x86_64". Crawlers are prefixed with "bot:".
func describeClient(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	ua := useragent.New(raw)
	name, version := ua.Browser()
	if ua.Bot() {
		return "bot: " + name
	}

	label := strings.TrimSpace(name + " " + version)
	if platform := ua.OS(); platform != "" {
		label += " on " + platform
	}
	if ua.Mobile() {
		label += " (mobile)"
	}
	return label
}
