package qualify

import "strings"

// WorkEmailHint is shown when a prospect enters a consumer email address.
const WorkEmailHint = "Please use your work email for faster processing."

var freeEmailDomains = map[string]struct{}{
	"gmail.com":   {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"outlook.com": {},
	"aol.com":     {},
	"icloud.com":  {},
}

// EmailHint returns WorkEmailHint for free consumer domains and "" otherwise.
// It is advisory and never blocks progress.
func EmailHint(email string) string {
	parts := strings.Split(strings.TrimSpace(email), "@")
	if len(parts) != 2 {
		return ""
	}
	if _, ok := freeEmailDomains[strings.ToLower(parts[1])]; ok {
		return WorkEmailHint
	}
	return ""
}
