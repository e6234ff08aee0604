// Package intent defines the tagged classification of an inbound message
// and the deterministic parsing branches that never touch the language
// model: reserved action-id prefixes and a small keyword vocabulary.
package intent

import "strings"

// Closed set of intent tags the classifier may produce for free text.
const (
	TagGreeting       = "GREETING"
	TagServiceRequest = "SERVICE_REQUEST"
	TagProductRequest = "PRODUCT_REQUEST"
	TagMenu           = "MENU"
	TagConfirm        = "CONFIRM"
	TagCorrect        = "CORRECT"
	TagUnknown        = "UNKNOWN"
)

// Action ids used by menu and button renderables. An inbound message that
// begins with a reserved prefix is the intent verbatim.
const (
	ActionFindService   = "OPT_FIND_SERVICE"
	ActionBuyItem       = "OPT_BUY_ITEM"
	ActionMyActive      = "OPT_MY_ACTIVE"
	ActionReportIssue   = "OPT_REPORT_ISSUE"
	ActionRegisterMe    = "OPT_REGISTER_ME"
	ActionSupport       = "OPT_SUPPORT"
	ActionChangePersona = "OPT_CHANGE_PERSONA"

	ActionConfirmRequest  = "CONFIRM_REQUEST"
	ActionCorrectRequest  = "CORRECT_REQUEST"
	ActionConfirmLocation = "CONFIRM_LOCATION"
	ActionCorrectLocation = "CORRECT_LOCATION"
	ActionConfirmBooking  = "CONFIRM_BOOKING"
	ActionCorrectBooking  = "CORRECT_BOOKING"

	SelectPrefix = "SELECT_"
)

var reservedPrefixes = []string{"OPT_", "CONFIRM_", "CORRECT_", "SELECT_"}

// menuKeywords map case-insensitive exact matches to the MENU intent.
var menuKeywords = map[string]struct{}{
	"menu":            {},
	"back":            {},
	"go back to menu": {},
}

// Intent is the classified form of one inbound message, with best-effort
// slots extracted from free text.
type Intent struct {
	Tag      string `json:"intent"`
	Category string `json:"category,omitempty"`
	Summary  string `json:"summary,omitempty"`
	City     string `json:"city,omitempty"`
}

// Unknown is the fail-soft intent: empty slots, UNKNOWN tag.
func Unknown() Intent {
	return Intent{Tag: TagUnknown}
}

// ParseReserved handles the deterministic branches. It returns the parsed
// intent and true when raw is a reserved action id or a menu keyword;
// everything else belongs to the language model.
func ParseReserved(raw string) (Intent, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return Intent{Tag: trimmed}, true
		}
	}
	if _, ok := menuKeywords[strings.ToLower(trimmed)]; ok {
		return Intent{Tag: TagMenu}, true
	}
	return Intent{}, false
}

// IsMenu reports whether the intent is the universal menu escape hatch.
func (i Intent) IsMenu() bool {
	return i.Tag == TagMenu
}

// IsConfirm reports whether the intent is an affirmative, either the
// free-text CONFIRM tag or any CONFIRM_* button id.
func (i Intent) IsConfirm() bool {
	return i.Tag == TagConfirm || strings.HasPrefix(i.Tag, "CONFIRM_")
}

// IsCorrect reports whether the intent disputes the pending value, either
// the free-text CORRECT tag or any CORRECT_* button id.
func (i Intent) IsCorrect() bool {
	return i.Tag == TagCorrect || strings.HasPrefix(i.Tag, "CORRECT_")
}

// Selection returns the candidate id carried by a SELECT_ action, or ""
// when the intent is not a selection.
func (i Intent) Selection() string {
	if strings.HasPrefix(i.Tag, SelectPrefix) {
		return strings.TrimPrefix(i.Tag, SelectPrefix)
	}
	return ""
}

// ValidTag reports whether tag is in the closed free-text tag set.
func ValidTag(tag string) bool {
	switch tag {
	case TagGreeting, TagServiceRequest, TagProductRequest,
		TagMenu, TagConfirm, TagCorrect, TagUnknown:
		return true
	}
	return false
}
