package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beaconworks/beacon-go/internal/domain/leads"
)

func TestLeadNotificationHTMLEscapesFormFields(t *testing.T) {
	lead := &leads.Lead{
		ID:             "lead-1",
		Email:          `"jane"@acme.io`,
		Name:           `<script>alert("pwned")</script>`,
		Company:        "At<img src=x onerror=alert(1)>Risk",
		Score:          85,
		Classification: leads.ClassificationHot,
		ScoreReasons:   []string{"business email domain"},
	}

	body := leadNotificationHTML(lead)

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "&lt;script&gt;alert(&#34;pwned&#34;)&lt;/script&gt;")
	assert.Contains(t, body, "At&lt;img src=x onerror=alert(1)&gt;Risk")
	assert.Contains(t, body, "&#34;jane&#34;@acme.io")
	assert.Contains(t, body, "<p><strong>Score:</strong> 85 (hot)</p>")
}

func TestLeadNotificationHTMLSkipsEmptyFields(t *testing.T) {
	lead := &leads.Lead{
		Email:          "jane@gmail.com",
		Score:          50,
		Classification: leads.ClassificationCold,
	}

	body := leadNotificationHTML(lead)

	assert.NotContains(t, body, "Name:")
	assert.NotContains(t, body, "Company:")
	assert.NotContains(t, body, "<ul>")
	assert.Contains(t, body, "jane@gmail.com")
}
