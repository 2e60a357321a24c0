package leads

import (
	"strings"
	"time"
)

// Sector is the industry a prospect selects in the first qualification step.
type Sector string

const (
	SectorFintech    Sector = "Fintech"
	SectorSaaS       Sector = "SaaS"
	SectorHealthTech Sector = "HealthTech"
	SectorPropTech   Sector = "PropTech"
	SectorOther      Sector = "Other"
)

// Sectors lists the selectable sectors in display order.
var Sectors = []Sector{SectorFintech, SectorSaaS, SectorHealthTech, SectorPropTech, SectorOther}

// ScopeItem is one of the engagement types a prospect can tick.
type ScopeItem string

const (
	ScopeNewMVP         ScopeItem = "New MVP"
	ScopeProductScaling ScopeItem = "Product Scaling"
	ScopeUXAudit        ScopeItem = "UX Audit"
	ScopeFullDesign     ScopeItem = "Full Design"
)

// ScopeItems lists the selectable scope items in display order.
var ScopeItems = []ScopeItem{ScopeNewMVP, ScopeProductScaling, ScopeUXAudit, ScopeFullDesign}

// CustomBudget marks a budget given as a free-text amount.
const CustomBudget = "Custom"

// BudgetBands lists the preset budget bands in display order.
var BudgetBands = []string{"£5k-£10k", "£10k-£25k", "£25k-£50k", "£50k+"}

// ParseSector matches s against the known sectors, ignoring case and surrounding space.
func ParseSector(s string) (Sector, error) {
	s = strings.TrimSpace(s)
	for _, sector := range Sectors {
		if strings.EqualFold(s, string(sector)) {
			return sector, nil
		}
	}
	return "", ErrUnknownSector
}

// ParseScopeItem matches s against the known scope items.
func ParseScopeItem(s string) (ScopeItem, error) {
	s = strings.TrimSpace(s)
	for _, item := range ScopeItems {
		if strings.EqualFold(s, string(item)) {
			return item, nil
		}
	}
	return "", ErrUnknownScope
}

// ParseBudgetBand matches s against the preset bands. Both "-" and "–" separators are accepted.
func ParseBudgetBand(s string) (string, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "–", "-")
	for _, band := range BudgetBands {
		if strings.EqualFold(s, band) {
			return band, nil
		}
	}
	return "", ErrUnknownBudget
}

// Lead is the finished submission handed to the notification sink.
type Lead struct {
	SessionID    string    `json:"session_id"`
	Query        string    `json:"query"`
	AIResponse   string    `json:"ai_response"`
	Sector       Sector    `json:"sector"`
	Scope        []string  `json:"scope"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Website      string    `json:"website,omitempty"`
	Budget       string    `json:"budget"`
	CustomBudget string    `json:"custom_budget,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// BudgetLabel renders the budget for humans, resolving the custom sentinel.
func (l *Lead) BudgetLabel() string {
	if l.Budget == CustomBudget || l.Budget == "" {
		if amount := strings.TrimSpace(l.CustomBudget); amount != "" {
			return "£" + strings.TrimPrefix(amount, "£") + " (custom)"
		}
	}
	return l.Budget
}

// Validate checks the fields the qualification flow guarantees before dispatch.
func (l *Lead) Validate() error {
	if strings.TrimSpace(string(l.Sector)) == "" {
		return ErrMissingSector
	}
	if len(l.Scope) == 0 {
		return ErrMissingScope
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(l.Email) == "" {
		return ErrMissingContact
	}
	if strings.TrimSpace(l.Budget) == "" && strings.TrimSpace(l.CustomBudget) == "" {
		return ErrMissingBudget
	}
	return nil
}

