package tracker

import "strings"

// ClientInfo is the outcome of user agent classification.
type ClientInfo struct {
	Device  string
	Browser string
	OS      string
}

// Device values.
const (
	DeviceDesktop = "desktop"
	DeviceTablet  = "tablet"
	DeviceMobile  = "mobile"
	DeviceUnknown = "unknown"
)

type uaRule struct {
	tokens []string
	value  string
}

// Rule order matters: earlier rules win, so more specific tokens come
// first (iPad before Mobile, Edge before Chrome, Chrome before Safari).
var deviceRules = []uaRule{
	{tokens: []string{"ipad"}, value: DeviceTablet},
	{tokens: []string{"tablet"}, value: DeviceTablet},
	{tokens: []string{"android"}, value: DeviceMobile},
	{tokens: []string{"iphone"}, value: DeviceMobile},
	{tokens: []string{"mobile"}, value: DeviceMobile},
	{tokens: []string{"windows"}, value: DeviceDesktop},
	{tokens: []string{"macintosh"}, value: DeviceDesktop},
	{tokens: []string{"x11"}, value: DeviceDesktop},
	{tokens: []string{"linux"}, value: DeviceDesktop},
	{tokens: []string{"cros"}, value: DeviceDesktop},
}

var browserRules = []uaRule{
	{tokens: []string{"edg/"}, value: "Edge"},
	{tokens: []string{"edge/"}, value: "Edge"},
	{tokens: []string{"opr/"}, value: "Opera"},
	{tokens: []string{"opera"}, value: "Opera"},
	{tokens: []string{"samsungbrowser"}, value: "Samsung Internet"},
	{tokens: []string{"firefox/"}, value: "Firefox"},
	{tokens: []string{"chrome/"}, value: "Chrome"},
	{tokens: []string{"crios/"}, value: "Chrome"},
	{tokens: []string{"safari/"}, value: "Safari"},
	{tokens: []string{"msie"}, value: "Internet Explorer"},
	{tokens: []string{"trident/"}, value: "Internet Explorer"},
}

var osRules = []uaRule{
	{tokens: []string{"windows nt"}, value: "Windows"},
	{tokens: []string{"iphone os"}, value: "iOS"},
	{tokens: []string{"ipad", "os "}, value: "iOS"},
	{tokens: []string{"mac os x"}, value: "macOS"},
	{tokens: []string{"android"}, value: "Android"},
	{tokens: []string{"cros"}, value: "ChromeOS"},
	{tokens: []string{"linux"}, value: "Linux"},
}

// ClassifyUserAgent maps a raw user agent string onto device, browser
// and operating system labels. It is a pure function over the rule
// tables above.
func ClassifyUserAgent(userAgent string) ClientInfo {
	ua := strings.ToLower(userAgent)

	info := ClientInfo{
		Device:  DeviceUnknown,
		Browser: "Unknown",
		OS:      "Unknown",
	}
	if ua == "" {
		return info
	}

	info.Device = matchRules(ua, deviceRules, DeviceUnknown)
	info.Browser = matchRules(ua, browserRules, "Unknown")
	info.OS = matchRules(ua, osRules, "Unknown")
	return info
}

func matchRules(ua string, rules []uaRule, fallback string) string {
	for _, rule := range rules {
		matched := true
		for _, token := range rule.tokens {
			if !strings.Contains(ua, token) {
				matched = false
				break
			}
		}
		if matched {
			return rule.value
		}
	}
	return fallback
}
