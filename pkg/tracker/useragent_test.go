package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUserAgent(t *testing.T) {
	tests := []struct {
		name        string
		ua          string
		wantDevice  string
		wantBrowser string
		wantOS      string
	}{
		{
			name:        "chrome on windows",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Chrome",
			wantOS:      "Windows",
		},
		{
			name:        "safari on iphone",
			ua:          "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantDevice:  DeviceMobile,
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "safari on ipad",
			ua:          "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			wantDevice:  DeviceTablet,
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "firefox on linux",
			ua:          "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Firefox",
			wantOS:      "Linux",
		},
		{
			name:        "edge on windows",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Edge",
			wantOS:      "Windows",
		},
		{
			name:        "chrome on android phone",
			ua:          "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantDevice:  DeviceMobile,
			wantBrowser: "Chrome",
			wantOS:      "Android",
		},
		{
			name:        "safari on macos",
			ua:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Safari",
			wantOS:      "macOS",
		},
		{
			name:        "empty string",
			ua:          "",
			wantDevice:  DeviceUnknown,
			wantBrowser: "Unknown",
			wantOS:      "Unknown",
		},
		{
			name:        "gibberish",
			ua:          "definitely-not-a-browser",
			wantDevice:  DeviceUnknown,
			wantBrowser: "Unknown",
			wantOS:      "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyUserAgent(tt.ua)
			assert.Equal(t, tt.wantDevice, info.Device, "device")
			assert.Equal(t, tt.wantBrowser, info.Browser, "browser")
			assert.Equal(t, tt.wantOS, info.OS, "os")
		})
	}
}
