package leads

import "strings"

// SessionSignals is the behavioral slice of a session consulted by the
// scoring engine. A nil value means no session could be resolved; scoring
// proceeds on the remaining signals.
type SessionSignals struct {
	PageCount       int
	DurationSeconds int
	MaxScrollDepth  int
	RageClickCount  int
}

// ScoreResult is the scoring engine's output. Reasons are ordered in
// evaluation order and explain every contributing signal.
type ScoreResult struct {
	Score          int
	Reasons        []string
	Classification string
}

const baseScore = 50

// Curated domains of organizations worth an immediate strong signal.
var enterpriseDomains = map[string]bool{
	"salesforce.com": true,
	"microsoft.com":  true,
	"google.com":     true,
	"amazon.com":     true,
	"apple.com":      true,
	"oracle.com":     true,
	"ibm.com":        true,
	"sap.com":        true,
	"adobe.com":      true,
	"cisco.com":      true,
}

var businessTLDs = []string{".co", ".io", ".ai", ".tech", ".dev"}

var freeMailDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"icloud.com":  true,
}

// ScoreLead computes the heuristic 0-100 qualification score for a new lead.
// It is pure given its inputs; persistence is the caller's responsibility.
func ScoreLead(email, name, company string, signals *SessionSignals) ScoreResult {
	score := baseScore
	var reasons []string

	domain := emailDomain(email)
	switch {
	case enterpriseDomains[domain]:
		score += 30
		reasons = append(reasons, "Enterprise email domain")
	case hasBusinessTLD(domain):
		score += 20
		reasons = append(reasons, "Business email domain")
	case !freeMailDomains[domain]:
		score += 15
		reasons = append(reasons, "Custom email domain")
	default:
		reasons = append(reasons, "Free email domain")
	}

	if strings.TrimSpace(name) != "" {
		score += 10
		reasons = append(reasons, "Name provided")
	}
	if strings.TrimSpace(company) != "" {
		score += 15
		reasons = append(reasons, "Company provided")
	}

	if signals != nil {
		if signals.PageCount >= 5 {
			score += 15
			reasons = append(reasons, "Viewed 5+ pages")
		} else if signals.PageCount >= 3 {
			score += 10
			reasons = append(reasons, "Viewed 3+ pages")
		}

		if signals.DurationSeconds >= 300 {
			score += 10
			reasons = append(reasons, "Spent 5+ minutes on site")
		} else if signals.DurationSeconds >= 120 {
			score += 5
			reasons = append(reasons, "Spent 2+ minutes on site")
		}

		if signals.MaxScrollDepth >= 75 {
			score += 10
			reasons = append(reasons, "Deep scroll engagement")
		}

		// The one negative contributor: frustration signal.
		if signals.RageClickCount > 0 {
			score -= 5
			reasons = append(reasons, "Rage clicks detected")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ScoreResult{
		Score:          score,
		Reasons:        reasons,
		Classification: Classify(score),
	}
}

// Classify maps a score to its coarse quality bucket. The engine never
// assigns "spam".
func Classify(score int) string {
	switch {
	case score >= 80:
		return ClassificationHot
	case score >= 60:
		return ClassificationWarm
	default:
		return ClassificationCold
	}
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

func hasBusinessTLD(domain string) bool {
	for _, tld := range businessTLDs {
		if strings.HasSuffix(domain, tld) {
			return true
		}
	}
	return false
}
