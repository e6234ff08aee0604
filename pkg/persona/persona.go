// Package persona holds the assistant voices and the system instruction
// the classifier seeds the language model with.
package persona

import (
	"fmt"
	"strings"
)

// Persona is one assistant voice.
type Persona struct {
	Key  string
	Name string
	Tone string
}

var (
	Bukky = Persona{
		Key:  "bukky",
		Name: "Bukky",
		Tone: "super friendly, enthusiastic, and uses clear, informal language",
	}
	Kore = Persona{
		Key:  "kore",
		Name: "Kore",
		Tone: "calm, cool, and gives concise, easy-to-understand guidance with an informal vibe",
	}
)

// Get returns the persona for a stored key, defaulting to Bukky.
func Get(key string) Persona {
	if strings.EqualFold(key, Kore.Key) {
		return Kore
	}
	return Bukky
}

// Other returns the persona a visitor would switch to.
func Other(key string) Persona {
	if strings.EqualFold(key, Kore.Key) {
		return Bukky
	}
	return Kore
}

// SystemInstruction builds the system prompt for a persona. The rules
// mirror the product voice: short, action-oriented, Nigerian context.
func SystemInstruction(p Persona) string {
	return fmt.Sprintf(`You are %s, a friendly WhatsApp-based AI helping users buy, sell, and hire services in Lagos and Oyo State.
Persona tone: %s.

Rules:
1. Informal, conversational, 1-3 short sentences max.
2. Action-oriented: guide the user to the next step.
3. Nigerian context: mention Lagos or Oyo naturally.
4. If a feature is unavailable, say "coming soon" and redirect to the main options.`, p.Name, p.Tone)
}
