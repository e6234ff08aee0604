package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Valid(t *testing.T) {
	valid := []State{
		StateEntry, StateMainMenu, StateCollectingRequest,
		StateConfirmingRequest, StateCorrectingRequest,
		StateAwaitingLocation, StateSearching, StateAwaitingSelection,
		StateAwaitingFinalConfirm, StatePaymentPending,
	}
	assert.Len(t, valid, 10)
	for _, s := range valid {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	for _, s := range []State{"", "NEW", "main_menu", "PAID", "AWAIT_SERVICE_LOCATION_CONFIRM"} {
		assert.False(t, s.Valid(), "expected %s to be invalid", s)
	}
}

func TestNewProfile_Defaults(t *testing.T) {
	p := NewProfile("2348001234567", "Ada")

	assert.Equal(t, "2348001234567", p.VisitorID)
	assert.Equal(t, "Ada", p.DisplayName)
	assert.Equal(t, StateEntry, p.State)
	assert.Equal(t, RoleUnassigned, p.Role)
	assert.Equal(t, PersonaBukky, p.Persona)
	assert.Equal(t, DefaultCity, p.Request.City)
	assert.Equal(t, DefaultRegion, p.Request.RegionState)
	assert.Empty(t, p.Candidates)
	assert.Empty(t, p.TransactionID)
}

func TestProfile_Normalize(t *testing.T) {
	p := &Profile{
		VisitorID: "v1",
		State:     State("GARBAGE"),
		Persona:   "narrator",
	}
	p.Normalize()

	assert.Equal(t, StateEntry, p.State)
	assert.Equal(t, RoleUnassigned, p.Role)
	assert.Equal(t, PersonaBukky, p.Persona)
	assert.Equal(t, DefaultCity, p.Request.City)
	assert.Equal(t, DefaultRegion, p.Request.RegionState)
}

func TestProfile_Normalize_KeepsValidFields(t *testing.T) {
	p := &Profile{
		VisitorID: "v1",
		State:     StateAwaitingSelection,
		Role:      RoleProvider,
		Persona:   PersonaKore,
		Request:   Request{City: "Ikeja", RegionState: "Lagos"},
	}
	p.Normalize()

	assert.Equal(t, StateAwaitingSelection, p.State)
	assert.Equal(t, RoleProvider, p.Role)
	assert.Equal(t, PersonaKore, p.Persona)
	assert.Equal(t, "Ikeja", p.Request.City)
}

func TestProfile_Clone_Independence(t *testing.T) {
	p := NewProfile("v1", "Ada")
	p.Candidates = []Candidate{{ID: "C1", Name: "Tunde"}}
	sel := Candidate{ID: "C1", Name: "Tunde"}
	p.Selection = &sel

	cp := p.Clone()
	cp.State = StatePaymentPending
	cp.Candidates[0].Name = "changed"
	cp.Selection.Name = "changed"
	cp.Request.City = "Lagos"

	assert.Equal(t, StateEntry, p.State)
	assert.Equal(t, "Tunde", p.Candidates[0].Name)
	assert.Equal(t, "Tunde", p.Selection.Name)
	assert.Equal(t, DefaultCity, p.Request.City)
}

func TestProfile_FindCandidate(t *testing.T) {
	p := NewProfile("v1", "")
	p.Candidates = []Candidate{{ID: "C1"}, {ID: "C2"}}

	assert.NotNil(t, p.FindCandidate("C2"))
	assert.Nil(t, p.FindCandidate("C9"))
}

func TestRequest_Complete(t *testing.T) {
	assert.False(t, Request{}.Complete())
	assert.False(t, Request{Category: "plumber"}.Complete(), "kind must be set before other fields are trusted")
	assert.True(t, Request{Kind: KindService, Category: "plumber"}.Complete())
	assert.True(t, Request{Kind: KindItem, Summary: "a used generator"}.Complete())
	assert.False(t, Request{Kind: KindService, City: "Ibadan"}.Complete())
}
