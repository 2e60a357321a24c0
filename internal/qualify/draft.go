package qualify

import (
	"slices"
	"strings"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
)

const (
	// FallbackText replaces an empty analysis.
	FallbackText = "Unable to decrypt. Try again."

	// ErrorText replaces the analysis when generation fails.
	ErrorText = "SYSTEM ERROR: NEURAL LINK FAILED. PLEASE RETRY."
)

// Draft is the lead record accumulated across the widget.
type Draft struct {
	Query        string
	AIResponse   string
	Sector       leads.Sector
	Scope        []leads.ScopeItem
	Name         string
	Email        string
	Website      string
	Budget       string
	CustomBudget string
	Honeypot     string
}

// HasScope reports whether item is selected.
func (d *Draft) HasScope(item leads.ScopeItem) bool {
	return slices.Contains(d.Scope, item)
}

// toggleScope adds item or removes it when already present.
func (d *Draft) toggleScope(item leads.ScopeItem) {
	if i := slices.Index(d.Scope, item); i >= 0 {
		d.Scope = slices.Delete(slices.Clone(d.Scope), i, i+1)
		return
	}
	d.Scope = append(slices.Clone(d.Scope), item)
}

func (d *Draft) hasContact() bool {
	return strings.TrimSpace(d.Name) != "" && strings.TrimSpace(d.Email) != ""
}

func (d *Draft) hasBudget() bool {
	return strings.TrimSpace(d.Budget) != "" || strings.TrimSpace(d.CustomBudget) != ""
}

// clearQualification drops everything gathered after the analysis.
func (d *Draft) clearQualification() {
	query := d.Query
	*d = Draft{Query: query}
}

// lead freezes the draft into the dispatched payload.
func (d *Draft) lead(sessionID string, at time.Time) leads.Lead {
	scope := make([]string, 0, len(d.Scope))
	for _, item := range d.Scope {
		scope = append(scope, string(item))
	}
	return leads.Lead{
		SessionID:    sessionID,
		Query:        d.Query,
		AIResponse:   d.AIResponse,
		Sector:       d.Sector,
		Scope:        scope,
		Name:         d.Name,
		Email:        d.Email,
		Website:      d.Website,
		Budget:       d.Budget,
		CustomBudget: d.CustomBudget,
		Timestamp:    at.UTC(),
	}
}
