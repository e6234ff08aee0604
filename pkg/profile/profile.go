package profile

import (
	"time"
)

// State is a node in the conversation state machine. The engine is the
// only component that writes it.
type State string

const (
	StateEntry                State = "ENTRY"
	StateMainMenu             State = "MAIN_MENU"
	StateCollectingRequest    State = "COLLECTING_REQUEST"
	StateConfirmingRequest    State = "CONFIRMING_REQUEST"
	StateCorrectingRequest    State = "CORRECTING_REQUEST"
	StateAwaitingLocation     State = "AWAITING_LOCATION"
	StateSearching            State = "SEARCHING"
	StateAwaitingSelection    State = "AWAITING_SELECTION"
	StateAwaitingFinalConfirm State = "AWAITING_FINAL_CONFIRM"
	StatePaymentPending       State = "PAYMENT_PENDING"
)

// Valid reports whether s is one of the enumerated conversation states.
func (s State) Valid() bool {
	switch s {
	case StateEntry, StateMainMenu, StateCollectingRequest,
		StateConfirmingRequest, StateCorrectingRequest,
		StateAwaitingLocation, StateSearching, StateAwaitingSelection,
		StateAwaitingFinalConfirm, StatePaymentPending:
		return true
	}
	return false
}

// Visitor roles.
const (
	RoleUnassigned = "unassigned"
	RoleRequester  = "requester"
	RoleProvider   = "provider"
)

// Assistant personas.
const (
	PersonaBukky = "bukky"
	PersonaKore  = "kore"
)

// Request kinds.
const (
	KindService = "service"
	KindItem    = "item"
)

// Default location for brand-new visitors.
const (
	DefaultCity   = "Ibadan"
	DefaultRegion = "Oyo"
)

// Request is the marketplace request a visitor builds up across turns.
// Kind must be set before any other field is trusted.
type Request struct {
	Kind        string `json:"kind,omitempty"`
	Category    string `json:"category,omitempty"`
	Summary     string `json:"summary,omitempty"`
	City        string `json:"city,omitempty"`
	RegionState string `json:"region_state,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

// Complete reports whether the request carries enough detail to be
// confirmed with the visitor.
func (r Request) Complete() bool {
	return r.Kind != "" && (r.Category != "" || r.Summary != "")
}

// Candidate is a provider or item match surfaced for selection. The ID is
// stable and resolves a later SELECT_ action.
type Candidate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
}

// Profile is the per-visitor session record, keyed by the visitor's
// channel identity. It persists indefinitely as the visitor's memory
// across unrelated conversations.
type Profile struct {
	VisitorID   string    `json:"visitor_id"`
	DisplayName string    `json:"display_name,omitempty"`
	State       State     `json:"state"`
	Role        string    `json:"role"`
	Persona     string    `json:"persona"`
	Request     Request   `json:"request"`

	// Candidates is only populated while State is AWAITING_SELECTION.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Selection is the candidate picked from the last result set, kept so
	// the final confirmation and payment instructions can name it after
	// Candidates is cleared.
	Selection *Candidate `json:"selection,omitempty"`

	// TransactionID is minted once when a booking is confirmed and never
	// regenerated for the same completed booking.
	TransactionID string `json:"transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile creates a Profile for a first-contact visitor.
func NewProfile(visitorID, displayName string) *Profile {
	now := time.Now()
	return &Profile{
		VisitorID:   visitorID,
		DisplayName: displayName,
		State:       StateEntry,
		Role:        RoleUnassigned,
		Persona:     PersonaBukky,
		Request: Request{
			City:        DefaultCity,
			RegionState: DefaultRegion,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize coerces a loaded Profile back into shape: an unknown state is
// treated as corruption and reset to ENTRY, and missing defaults are
// filled in. Called by the store client on every load.
func (p *Profile) Normalize() {
	if !p.State.Valid() {
		p.State = StateEntry
	}
	if p.Role == "" {
		p.Role = RoleUnassigned
	}
	if p.Persona != PersonaBukky && p.Persona != PersonaKore {
		p.Persona = PersonaBukky
	}
	if p.Request.City == "" {
		p.Request.City = DefaultCity
	}
	if p.Request.RegionState == "" {
		p.Request.RegionState = DefaultRegion
	}
}

// Clone returns a deep copy. Step operates on a clone so a failed or
// abandoned turn never leaves a half-mutated Profile behind.
func (p *Profile) Clone() *Profile {
	cp := *p
	if p.Candidates != nil {
		cp.Candidates = make([]Candidate, len(p.Candidates))
		copy(cp.Candidates, p.Candidates)
	}
	if p.Selection != nil {
		sel := *p.Selection
		cp.Selection = &sel
	}
	return &cp
}

// FindCandidate resolves a candidate id against the stored result set.
func (p *Profile) FindCandidate(id string) *Candidate {
	for i := range p.Candidates {
		if p.Candidates[i].ID == id {
			return &p.Candidates[i]
		}
	}
	return nil
}
