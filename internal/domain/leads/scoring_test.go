package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLeadFreeEmailBaseline(t *testing.T) {
	result := ScoreLead("test@gmail.com", "", "", nil)

	assert.Equal(t, 50, result.Score)
	assert.Equal(t, []string{"Free email domain"}, result.Reasons)
	assert.Equal(t, ClassificationCold, result.Classification)
}

func TestScoreLeadEmailDomainTiers(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		wantScore  int
		wantReason string
	}{
		{"enterprise", "jane@salesforce.com", 80, "Enterprise email domain"},
		{"business tld io", "dev@startup.io", 70, "Business email domain"},
		{"business tld ai", "founder@lab.ai", 70, "Business email domain"},
		{"custom domain", "info@acme-widgets.net", 65, "Custom email domain"},
		{"free outlook", "someone@outlook.com", 50, "Free email domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreLead(tt.email, "", "", nil)
			assert.Equal(t, tt.wantScore, result.Score)
			require.Len(t, result.Reasons, 1)
			assert.Equal(t, tt.wantReason, result.Reasons[0])
		})
	}
}

func TestScoreLeadClampsAtHundred(t *testing.T) {
	// Enterprise domain, name, company and every engagement signal sums
	// past 100 and must clamp.
	signals := &SessionSignals{
		PageCount:       8,
		DurationSeconds: 600,
		MaxScrollDepth:  90,
	}
	result := ScoreLead("jane@salesforce.com", "Jane Doe", "Salesforce", signals)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, ClassificationHot, result.Classification)
	assert.Contains(t, result.Reasons, "Enterprise email domain")
	assert.Contains(t, result.Reasons, "Name provided")
	assert.Contains(t, result.Reasons, "Company provided")
	assert.Contains(t, result.Reasons, "Viewed 5+ pages")
	assert.Contains(t, result.Reasons, "Spent 5+ minutes on site")
	assert.Contains(t, result.Reasons, "Deep scroll engagement")
}

func TestScoreLeadEngagementTiers(t *testing.T) {
	tests := []struct {
		name       string
		signals    SessionSignals
		wantScore  int
		wantReason string
	}{
		{"three pages", SessionSignals{PageCount: 3}, 60, "Viewed 3+ pages"},
		{"five pages", SessionSignals{PageCount: 5}, 65, "Viewed 5+ pages"},
		{"two minutes", SessionSignals{DurationSeconds: 120}, 55, "Spent 2+ minutes on site"},
		{"five minutes", SessionSignals{DurationSeconds: 300}, 60, "Spent 5+ minutes on site"},
		{"deep scroll", SessionSignals{MaxScrollDepth: 75}, 60, "Deep scroll engagement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreLead("test@gmail.com", "", "", &tt.signals)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Contains(t, result.Reasons, tt.wantReason)
		})
	}
}

func TestScoreLeadRagePenalty(t *testing.T) {
	result := ScoreLead("test@gmail.com", "", "", &SessionSignals{RageClickCount: 2})

	assert.Equal(t, 45, result.Score)
	assert.Contains(t, result.Reasons, "Rage clicks detected")
}

func TestScoreLeadNilSignalsDegradesGracefully(t *testing.T) {
	withSignals := ScoreLead("jane@gmail.com", "Jane", "", &SessionSignals{PageCount: 5})
	withoutSignals := ScoreLead("jane@gmail.com", "Jane", "", nil)

	assert.Equal(t, withSignals.Score-15, withoutSignals.Score)
	assert.NotContains(t, withoutSignals.Reasons, "Viewed 5+ pages")
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, ClassificationHot, Classify(100))
	assert.Equal(t, ClassificationHot, Classify(80))
	assert.Equal(t, ClassificationWarm, Classify(79))
	assert.Equal(t, ClassificationWarm, Classify(60))
	assert.Equal(t, ClassificationCold, Classify(59))
	assert.Equal(t, ClassificationCold, Classify(0))
}

func TestClassifyNeverReturnsSpam(t *testing.T) {
	for score := 0; score <= 100; score++ {
		assert.NotEqual(t, ClassificationSpam, Classify(score))
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@acme.com", NormalizeEmail("  Jane@ACME.com "))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jane@acme.com"))
	assert.True(t, ValidEmail("jane+tag@sub.acme.co"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail("spaces in@acme.com"))
	assert.False(t, ValidEmail(""))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost, StatusSpam} {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}
